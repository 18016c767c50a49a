package dto

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta computes pagination metadata from list parameters.
func NewPaginationMeta(page, pageSize int, total int64) PaginationMeta {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func stringSliceFromJSON(data datatypes.JSON) []string {
	values := []string{}
	if len(data) == 0 {
		return values
	}
	_ = json.Unmarshal(data, &values)
	return values
}

func stringMapFromJSON(data datatypes.JSON) map[string]string {
	values := map[string]string{}
	if len(data) == 0 {
		return values
	}
	_ = json.Unmarshal(data, &values)
	return values
}

func mapFromJSONMap(data datatypes.JSONMap) map[string]interface{} {
	result := make(map[string]interface{}, len(data))
	for key, value := range data {
		result[key] = value
	}
	return result
}
