package job

import (
	"github.com/ykhdr/hashcrack/pkg/messages"
	"time"
)

type Id string

type Info struct {
	ID          Id                     `bson:"_id"`
	Status      messages.Status        `bson:"status"`
	Request     *messages.CrackRequest `bson:"request"`
	Result      *messages.CrackResult  `bson:"result,omitempty"`
	ErrorReason string                 `bson:"error_reason"`
	CreatedAt   time.Time              `bson:"created_at"`
	UpdatedAt   time.Time              `bson:"updated_at"`
}

func New(id Id, req *messages.CrackRequest) *Info {
	now := time.Now().UTC()
	return &Info{
		ID:        id,
		Status:    messages.StatusNew,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Copy returns a copy that shares Request, which is never modified after
// the job is created.
func (i *Info) Copy() *Info {
	c := *i
	if i.Result != nil {
		r := *i.Result
		c.Result = &r
	}
	return &c
}

// Finish records the outcome of a finished search.
func (i *Info) Finish(res *messages.CrackResult, err error) {
	i.UpdatedAt = time.Now().UTC()
	switch {
	case err != nil:
		i.Status = messages.StatusError
		i.ErrorReason = err.Error()
	case res.Found:
		i.Status = messages.StatusReady
		i.Result = res
	default:
		i.Status = messages.StatusNotFound
		i.Result = res
	}
}

func (i *Info) Done() bool {
	switch i.Status {
	case messages.StatusReady, messages.StatusNotFound, messages.StatusError:
		return true
	}
	return false
}

// StatusResponse renders the job for the status endpoint.
func (i *Info) StatusResponse() *messages.StatusResponse {
	resp := &messages.StatusResponse{
		Status: i.Status,
		Result: i.Result,
		Reason: i.ErrorReason,
	}
	if i.Status == messages.StatusReady && i.Result != nil {
		candidate := i.Result.Candidate
		resp.Data = &candidate
	}
	return resp
}
