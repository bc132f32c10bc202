package messages

// CrackRequest describes one cracking job as accepted by the HTTP API and
// the command line.
type CrackRequest struct {
	Hash      string   `json:"hash"`
	Algorithm string   `json:"algorithm,omitempty"`
	Alphabet  string   `json:"alphabet"`
	MinLength int      `json:"minLength"`
	MaxLength int      `json:"maxLength"`
	Workers   int      `json:"workers,omitempty"`
	Words     []string `json:"words,omitempty"`
	Strategy  string   `json:"strategy,omitempty"`
}

type CrackResult struct {
	Found     bool   `json:"found"`
	Candidate string `json:"candidate,omitempty"`
	Algorithm string `json:"algorithm"`
	Source    string `json:"source,omitempty"`
	Length    int    `json:"length,omitempty"`
	Checked   uint64 `json:"checked"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type CrackResponse struct {
	RequestId string `json:"requestId"`
}

type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusNotFound   Status = "NOT_FOUND"
	StatusError      Status = "ERROR"
)

type StatusResponse struct {
	Status Status       `json:"status"`
	Data   *string      `json:"data"`
	Result *CrackResult `json:"result,omitempty"`
	Reason string       `json:"reason,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
