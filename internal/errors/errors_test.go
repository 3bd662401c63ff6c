package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("test error")
	assert.Equal(t, "test error", err.Error())

	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())
	assert.Equal(t, origErr, Unwrap(wrappedErr))

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestFileError(t *testing.T) {
	fileErr := NewFileError("cannot access", "/bills/jan", FileAccessDenied, nil)
	assert.Equal(t, "cannot access: /bills/jan", fileErr.Error())
	assert.Equal(t, "/bills/jan", fileErr.Path())
	assert.Equal(t, FileAccessDenied, fileErr.Kind())

	origErr := fmt.Errorf("permission denied")
	fileErr = NewFileError("cannot access", "/bills/jan", FileAccessDenied, origErr)
	assert.Equal(t, "cannot access: /bills/jan: permission denied", fileErr.Error())
	assert.Equal(t, origErr, Unwrap(fileErr))

	notFoundErr := NewFileError("file not found", "/missing", FileNotFound, nil)
	assert.True(t, IsFileNotFound(notFoundErr))
	assert.False(t, IsFileNotFound(fileErr))
	assert.Equal(t, FileAccessDenied, KindOf(fileErr))
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "storage.backend", InvalidConfig, nil)
	assert.Equal(t, "invalid value: storage.backend", configErr.Error())
	assert.Equal(t, "storage.backend", configErr.Param())

	origErr := fmt.Errorf("unsupported")
	configErr = NewConfigError("invalid value", "storage.backend", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: storage.backend: unsupported", configErr.Error())

	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))
}

func TestDatabaseError(t *testing.T) {
	base := fmt.Errorf("disk I/O error")
	dbErr := NewDatabaseError("failed to save bill record", base).
		WithOperation("save_bill_record").
		WithContext("path", "/bills/jan/a.json")

	assert.Equal(t, "failed to save bill record: operation=save_bill_record: disk I/O error", dbErr.Error())
	assert.Equal(t, "/bills/jan/a.json", dbErr.Context()["path"])
	var wrapped *DatabaseError
	assert.True(t, As(Wrap(dbErr, "persist"), &wrapped))
	assert.Equal(t, DatabaseOperationFailed, KindOf(dbErr))
}

func TestInvalidInputError(t *testing.T) {
	inputErr := NewInvalidInputError("bad payload", nil).WithContext("type", "UPDATE_TAG")
	assert.True(t, IsInvalidInputError(inputErr))
	assert.Equal(t, "UPDATE_TAG", inputErr.Context()["type"])
	assert.Equal(t, InvalidInputData, KindOf(inputErr))
}

func TestErrorChains(t *testing.T) {
	baseErr := errors.New("base error")
	fileErr := NewFileError("file error", "/bills", FileNotFound, baseErr)
	configErr := NewConfigError("config error", "tracker.folder", InvalidConfig, fileErr)

	assert.Equal(t, "config error: tracker.folder: file error: /bills: base error", configErr.Error())
	assert.True(t, Is(configErr, baseErr))
	assert.True(t, IsFileNotFound(configErr))
	assert.True(t, IsInvalidConfig(configErr))
	assert.Equal(t, InvalidConfig, KindOf(configErr))
	assert.Equal(t, Unknown, KindOf(baseErr))
}
