package model

import "time"

// Response is one survey submission
type Response struct {
	ID                 string           `json:"id"`
	CreatedAt          time.Time        `json:"createdAt"`
	CreatedAtDefaulted bool             `json:"createdAtDefaulted,omitempty"` // stamped with build time, not stored
	Fields             map[string]Value `json:"fields"`
}

// Field returns the named value, Missing when the response lacks it
func (r Response) Field(name string) Value {
	if r.Fields == nil {
		return Missing()
	}
	return r.Fields[name]
}
