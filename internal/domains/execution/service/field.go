package service

import (
	"fmt"
	"taskpal/internal/domains/execution/model"
	"taskpal/internal/domains/execution/model/dto"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
)

// fieldOwners maps each writable field to the booking side allowed to change it.
var fieldOwners = map[string]string{
	model.FieldCompletedClient:   constant.RoleClient,
	model.FieldCompletedProvider: constant.RoleProvider,
	model.FieldClientNotes:       constant.RoleClient,
	model.FieldProviderNotes:     constant.RoleProvider,
}

func completionField(field string) bool {
	return field == model.FieldCompletedClient || field == model.FieldCompletedProvider
}

// applyField validates the request against the caller's side and mirrors the change
// onto execution.
func applyField(execution *model.Execution, party string, req dto.UpdateFieldRequest) (fields dto.ExecutionFields, err error) {
	owner, ok := fieldOwners[req.Field]
	if !ok {
		return fields, failure.BadRequestFromString(fmt.Sprintf("unknown execution field %q", req.Field)) // nolint:wrapcheck
	}

	if owner != party {
		return fields, failure.Forbidden(fmt.Sprintf("only the %s can update %s", owner, req.Field)) // nolint:wrapcheck
	}

	if completionField(req.Field) {
		value, ok := req.Value.(bool)
		if !ok {
			return fields, failure.BadRequestFromString(req.Field + " expects a boolean value") // nolint:wrapcheck
		}

		if req.Field == model.FieldCompletedClient {
			fields.CompletedClient = &value
			execution.CompletedClient = value
		} else {
			fields.CompletedProvider = &value
			execution.CompletedProvider = value
		}

		return fields, nil
	}

	value, ok := req.Value.(string)
	if !ok {
		return fields, failure.BadRequestFromString(req.Field + " expects a text value") // nolint:wrapcheck
	}

	if req.Field == model.FieldClientNotes {
		fields.ClientNotes = &value
		execution.ClientNotes = &value
	} else {
		fields.ProviderNotes = &value
		execution.ProviderNotes = &value
	}

	return fields, nil
}
