package service

import (
	"errors"

	"github.com/haierkeys/projectforge-office-service/internal/domain"
	"github.com/haierkeys/projectforge-office-service/pkg/code"
	"github.com/haierkeys/projectforge-office-service/pkg/editguard"
	"github.com/haierkeys/projectforge-office-service/pkg/listview"
	"github.com/haierkeys/projectforge-office-service/pkg/writequeue"

	"gorm.io/gorm"
)

// toCodeError 将仓储、写队列与表单锁的错误转换为用户可见的错误码
// 已经是 *code.Code 的错误原样返回
func toCodeError(err error) error {
	if err == nil {
		return nil
	}
	var c *code.Code
	if errors.As(err, &c) {
		return c
	}

	var unknownField *domain.ErrUnknownProperty
	var unknownSort *listview.ErrUnknownProperty
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return code.ErrorRecordNotFound
	case errors.Is(err, editguard.ErrAlreadySubmitted):
		return code.ErrorAlreadySubmitted
	case errors.Is(err, editguard.ErrUnknownToken), errors.Is(err, editguard.ErrTokenMismatch):
		return code.ErrorEditTokenInvalid
	case errors.Is(err, writequeue.ErrWriteQueueFull), errors.Is(err, writequeue.ErrWriteTimeout):
		return code.ErrorWriteQueueBusy
	case errors.As(err, &unknownField):
		return code.ErrorAutocompleteField.WithDetails(unknownField.Property)
	case errors.As(err, &unknownSort):
		return code.ErrorSortProperty.WithDetails(unknownSort.Property)
	}
	return code.ErrorDBQuery.WithDetails(err.Error())
}
