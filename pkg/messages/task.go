package messages

import "encoding/xml"

// CrackTaskMessage is the queue form of a CrackRequest.
type CrackTaskMessage struct {
	XMLName   xml.Name `xml:"CrackTaskMessage"`
	RequestId string   `xml:"RequestId"`
	Hash      string   `xml:"Hash"`
	Algorithm string   `xml:"Algorithm,omitempty"`
	Alphabet  Alphabet `xml:"Alphabet"`
	MinLength int      `xml:"MinLength"`
	MaxLength int      `xml:"MaxLength"`
	Words     []string `xml:"Words>Word,omitempty"`
	Strategy  string   `xml:"Strategy,omitempty"`
}

type Alphabet struct {
	Symbols []string `xml:"symbols"`
}

type CrackTaskResult struct {
	XMLName   xml.Name `xml:"CrackTaskResult"`
	Id        string   `xml:"Id"`
	RequestId string   `xml:"RequestId"`
	Status    Status   `xml:"Status"`
	Found     []string `xml:"Found>Value"`
	Reason    string   `xml:"Reason,omitempty"`
	Algorithm string   `xml:"Algorithm,omitempty"`
	Source    string   `xml:"Source,omitempty"`
	Length    int      `xml:"Length,omitempty"`
	Checked   uint64   `xml:"Checked"`
	ElapsedMs int64    `xml:"ElapsedMs"`
}

func NewAlphabet(alphabet string) Alphabet {
	symbols := make([]string, 0, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		symbols = append(symbols, alphabet[i:i+1])
	}
	return Alphabet{Symbols: symbols}
}

func (a Alphabet) String() string {
	var b []byte
	for _, s := range a.Symbols {
		b = append(b, s...)
	}
	return string(b)
}

// NewTaskMessage is the queue form of req. The worker picks its own
// worker count.
func NewTaskMessage(requestID string, req *CrackRequest) *CrackTaskMessage {
	return &CrackTaskMessage{
		RequestId: requestID,
		Hash:      req.Hash,
		Algorithm: req.Algorithm,
		Alphabet:  NewAlphabet(req.Alphabet),
		MinLength: req.MinLength,
		MaxLength: req.MaxLength,
		Words:     req.Words,
		Strategy:  req.Strategy,
	}
}

// Request converts the message to the form accepted by the cracking service.
func (m *CrackTaskMessage) Request(workers int) *CrackRequest {
	return &CrackRequest{
		Hash:      m.Hash,
		Algorithm: m.Algorithm,
		Alphabet:  m.Alphabet.String(),
		MinLength: m.MinLength,
		MaxLength: m.MaxLength,
		Workers:   workers,
		Words:     m.Words,
		Strategy:  m.Strategy,
	}
}
