// Package httperror defines the error body returned by all endpoints.
package httperror

type Error struct {
	Message string `json:"error" example:"there is no payment matching your query"`
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}
