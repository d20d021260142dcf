package service

import (
	"errors"
	"fmt"

	domainerrors "github.com/musaddiq-rafi/boipoka.ai-sub000/internal/errors"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/id"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/metrics"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/policy"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
)

// Page sizes for list endpoints.
const (
	BlogPageSize        = 10
	CollectionPageSize  = 12
	ReadingListPageSize = 20
)

// Chat history bounds.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Page is the pagination block returned with list results.
type Page struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

func pageOf[T any](r *store.PagedResult[T]) Page {
	return Page{
		Page:       r.Page,
		PageSize:   r.PageSize,
		Total:      r.Total,
		TotalPages: r.TotalPages,
		HasMore:    r.HasMore(),
	}
}

// checkID rejects ids that are not well-formed for prefix.
func checkID(prefix, value, kind string) error {
	if !id.Valid(prefix, value) {
		return domainerrors.Validationf("invalid %s id", kind)
	}
	return nil
}

// authorizeRead applies the single-item read rule.
func authorizeRead(item policy.Owned, requesterID, kind string) error {
	if policy.CanRead(item, requesterID) == policy.Deny {
		metrics.AccessDenied(kind, "read")
		return domainerrors.Forbiddenf("you do not have access to this %s", kind)
	}
	return nil
}

// authorizeMutation applies the owner-only mutation rule to a persisted document.
func authorizeMutation(owner any, requesterID, kind, action string) error {
	if policy.CanMutate(owner, requesterID) == policy.Deny {
		metrics.AccessDenied(kind, action)
		return domainerrors.Forbiddenf("you do not own this %s", kind)
	}
	return nil
}

// fromStore converts client-facing storage errors (misses, unique-key
// collisions) into domain errors and wraps everything else with op.
func fromStore(err error, op string) error {
	var storeErr *store.Error
	if errors.As(err, &storeErr) && storeErr.Code < 500 {
		return domainerrors.Wrap(err, domainerrors.CodeForStatus(storeErr.Code), storeErr.Message)
	}
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
