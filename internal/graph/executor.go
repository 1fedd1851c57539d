package graph

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
)

// Request is a GraphQL request as sent over HTTP.
type Request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

// Executor runs requests against a built schema.
type Executor struct {
	schema graphql.Schema
}

func NewExecutor(r *Resolver) (*Executor, error) {
	schema, err := NewSchema(r)
	if err != nil {
		return nil, err
	}
	return &Executor{schema: schema}, nil
}

// Execute runs req with the caller's token available to resolvers.
func (e *Executor) Execute(ctx context.Context, token string, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         e.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        WithToken(ctx, token),
	})
}

// IsMutation reports whether the operation req selects is a mutation. A
// query that does not parse is not a mutation; executing it reports the
// syntax error.
func IsMutation(req Request) bool {
	doc, err := parser.Parse(parser.ParseParams{Source: req.Query})
	if err != nil {
		return false
	}
	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if req.OperationName != "" && (op.Name == nil || op.Name.Value != req.OperationName) {
			continue
		}
		return op.Operation == ast.OperationTypeMutation
	}
	return false
}
