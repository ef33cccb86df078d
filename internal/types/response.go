package types

import "encoding/json"

// Envelope is the uniform response body. Exactly one of Data and Error is
// serialized, and IsSuccess agrees with which one.
type Envelope struct {
	IsSuccess     bool
	OfficialEmail string
	Data          any
	Error         string
	// bare envelopes (health) carry neither data nor error
	bare bool
}

func Success(email string, data any) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email, Data: data}
}

func Failure(email, message string) Envelope {
	return Envelope{IsSuccess: false, OfficialEmail: email, Error: message}
}

// Bare is a success envelope with no payload, used by the health check.
func Bare(email string) Envelope {
	return Envelope{IsSuccess: true, OfficialEmail: email, bare: true}
}

type successBody struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Data          any    `json:"data"`
}

type failureBody struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
	Error         string `json:"error"`
}

type bareBody struct {
	IsSuccess     bool   `json:"is_success"`
	OfficialEmail string `json:"official_email"`
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	switch {
	case e.bare:
		return json.Marshal(bareBody{IsSuccess: true, OfficialEmail: e.OfficialEmail})
	case e.IsSuccess:
		return json.Marshal(successBody{IsSuccess: true, OfficialEmail: e.OfficialEmail, Data: e.Data})
	default:
		return json.Marshal(failureBody{IsSuccess: false, OfficialEmail: e.OfficialEmail, Error: e.Error})
	}
}
