package httpapi

import "github.com/roach88/fleetlot/internal/engine"

// Status is the outcome field of every response.
type Status string

const (
	// StatusOK is used for health-check responses.
	StatusOK Status = "OK"

	// StatusSuccess indicates an operation completed successfully.
	StatusSuccess Status = "success"

	// StatusError indicates an operation failed.
	StatusError Status = "error"
)

// Response represents the standard API response format.
type Response struct {
	Status Status `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CommandsRequest is the body of POST /api/commands.
type CommandsRequest struct {
	Lines []string `json:"lines"`
}

// CommandsResponse lists the output of every line that produced one, in
// input order. On a malformed line it holds the outputs of the lines
// before it together with the error.
type CommandsResponse struct {
	Status  Status   `json:"status"`
	Outputs []string `json:"outputs"`
	Error   string   `json:"error,omitempty"`
}

// LotsResponse is the body of GET /api/lots.
type LotsResponse struct {
	Status Status               `json:"status"`
	Lots   []engine.LotSnapshot `json:"lots"`
}

// LotResponse is the body of GET /api/lots/{capacity}.
type LotResponse struct {
	Status Status             `json:"status"`
	Lot    engine.LotSnapshot `json:"lot"`
}

// CountResponse is the body of GET /api/count.
type CountResponse struct {
	Status    Status `json:"status"`
	Threshold int    `json:"threshold"`
	Count     int    `json:"count"`
}

func NewOKResponse() Response {
	return Response{Status: StatusOK}
}

func NewErrorResponse(err string) Response {
	return Response{Status: StatusError, Error: err}
}
