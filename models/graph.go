package models

import "strings"

type GraphRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type GraphError struct {
	Message string `json:"message"`
}

type GraphResponse[T any] struct {
	Data   T            `json:"data"`
	Errors []GraphError `json:"errors,omitempty"`
}

func (r *GraphResponse[T]) ErrorMessage() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

type StreamsData struct {
	Streams []Stream `json:"streams"`
}

type UserData struct {
	User *User `json:"user"`
}

type TokensData struct {
	Tokens []Token `json:"tokens"`
}
