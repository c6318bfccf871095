package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"fdrtidy/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrapDerivesCodeFromDomain(t *testing.T) {
	notFound := Wrap(core.NewResultNotFoundError("abc"), "load result")
	assert.Equal(t, CodeNotFound, GetCode(notFound))
	assert.True(t, stderrors.Is(notFound, core.ErrResultNotFound))

	missing := Wrapf(core.NewMissingFieldError("lfdr"), "tabulate %s", "records")
	assert.Equal(t, CodeInvalidInput, GetCode(missing))
	assert.Equal(t, "tabulate records: missing required field: lfdr", missing.Error())

	other := Wrap(stderrors.New("disk full"), "write")
	assert.Equal(t, CodeInternalError, GetCode(other))
}

func TestWrapKeepsAppErrorCode(t *testing.T) {
	err := Wrap(ConfigInvalid("PORT is required"), "load config")
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.True(t, IsAppError(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, Wrapf(nil, "x %d", 1))
	assert.Nil(t, WithCode(CodeNotFound, nil))
}

func TestWithCode(t *testing.T) {
	base := stderrors.New("connection refused")
	err := WithCode(CodeDatabaseError, base)
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.True(t, stderrors.Is(err, base))

	recoded := WithCode(CodeNotFound, InvalidInput("bad id"))
	assert.Equal(t, CodeNotFound, GetCode(recoded))
	assert.Equal(t, "bad id", recoded.Error())
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("result"))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "", Classify(nil))
	assert.Equal(t, CodeInvalidInput, Classify(fmt.Errorf("x: %w", core.ErrUnknownFlavor)))
	assert.Equal(t, CodeDatabaseError, Classify(DatabaseError("query failed", nil)))
}
