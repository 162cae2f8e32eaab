package linode

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// Page is one page of a paginated collection.
type Page[T any] struct {
	Data    []T `json:"data"`
	Page    int `json:"page"`
	Pages   int `json:"pages"`
	Results int `json:"results"`
}

// ListParams are the query parameters accepted by collection endpoints.
// Zero values are omitted.
type ListParams struct {
	Page     int
	PageSize int
}

func (p *ListParams) values() url.Values {
	v := url.Values{}
	if p == nil {
		return v
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	return v
}

// Filter is the X-Filter expression for collection endpoints. Every field is
// optional; only set fields are sent.
type Filter struct {
	Label       string
	Group       string
	Status      ServiceStatus
	ServiceType ServiceType
	IsPublic    *bool
	OrderBy     string
	Order       string
}

// header renders f as the X-Filter JSON document, or "" when f is empty.
func (f *Filter) header() (string, error) {
	if f == nil {
		return "", nil
	}
	doc := map[string]any{}
	if f.Label != "" {
		doc["label"] = f.Label
	}
	if f.Group != "" {
		doc["group"] = f.Group
	}
	if f.Status != "" {
		doc["status"] = f.Status
	}
	if f.ServiceType != "" {
		doc["service_type"] = f.ServiceType
	}
	if f.IsPublic != nil {
		doc["is_public"] = *f.IsPublic
	}
	if f.OrderBy != "" {
		doc["+order_by"] = f.OrderBy
		if f.Order != "" {
			doc["+order"] = f.Order
		}
	}
	if len(doc) == 0 {
		return "", nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PageFetcher retrieves a single page of a collection.
type PageFetcher[T any] func(ctx context.Context, params *ListParams) (*Page[T], error)

// ListAll walks every page of a collection, one request per page, and
// returns the concatenated records in server order.
func ListAll[T any](ctx context.Context, pageSize int, fetch PageFetcher[T]) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		p, err := fetch(ctx, &ListParams{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, p.Data...)
		if p.Pages <= page {
			break
		}
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}
