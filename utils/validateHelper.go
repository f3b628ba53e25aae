package utils

import (
	"context"

	"bitbucket.org/tallyworks/counts_backend/config"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs go-playground/validator tags on a request payload.
func ValidateStruct(obj interface{}) error {
	return validate.Struct(obj)
}

// ResourceCountWhere counts rows of T for one store, with an optional extra
// condition. storeId can be blank for season-wide lookups.
func ResourceCountWhere[T any](ctx context.Context, storeId string, condition string, value ...interface{}) (int64, error) {
	var model T

	dbCtx := config.GetDB().WithContext(ctx).Model(&model)
	if storeId != "" {
		dbCtx = dbCtx.Where("store_id = ?", storeId)
	}
	if condition != "" {
		dbCtx = dbCtx.Where(condition, value...)
	}
	var count int64
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
