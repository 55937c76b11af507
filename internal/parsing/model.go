package parsing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/llm"
	"github.com/jonathan/presence-analyzer/internal/observability"
	"github.com/jonathan/presence-analyzer/internal/schemas"
)

// Stage failure messages
const (
	MsgInvalidModelOutput = "Invalid or incomplete JSON from model"
	MsgProfileRequired    = "Profile is required"
)

// CompleteJSON runs one model call and recovers a JSON object from the reply.
// The object is checked against schema; violations are logged and do not fail the call.
func CompleteJSON(ctx context.Context, client llm.Client, req llm.Request, schema schemas.Name, logger *zap.Logger) (map[string]any, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	text, err := client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	obj, ok := llm.ParseJSONFromModel(text)
	if !ok {
		logger.Info("model returned unparseable output",
			zap.String("schema", string(schema)),
			zap.String("output", observability.TruncateForLog(text, 300)))
		return nil, apperr.Model(apperr.CodeInvalidModelOutput, MsgInvalidModelOutput, nil)
	}

	if err := schemas.Validate(schema, obj); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			logger.Debug("model output deviates from schema",
				zap.String("schema", string(schema)),
				zap.Strings("violations", validationErr.Fields()))
		} else {
			logger.Warn("schema check failed", zap.String("schema", string(schema)), zap.Error(err))
		}
	}
	return obj, nil
}

// Normalize runs fn and converts a panic inside it into a structure failure.
func Normalize[T any](what string, fn func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Wrap(apperr.KindStructure, apperr.CodeInvalidStructure,
				"Invalid "+what+" structure", fmt.Errorf("%v", r))
		}
	}()
	return fn(), nil
}
