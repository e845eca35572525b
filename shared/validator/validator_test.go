package validator_test

import (
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"taskpal/shared/failure"
	"taskpal/shared/validator"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	Email     string `json:"email"      validate:"required,email"`
	Phone     string `json:"phone"      validate:"required,phone"`
	Type      string `json:"type"       validate:"required,oneof=individual agency"`
}

type uploadRequest struct {
	File *multipart.FileHeader `json:"file" validate:"required,mimetypes=image/png application/pdf,maxfilesize=1"`
}

func upload(contentType string, size int64) *multipart.FileHeader {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType)

	return &multipart.FileHeader{Filename: "doc", Header: header, Size: size}
}

func TestValidateStruct(t *testing.T) {
	valid := registerRequest{FirstName: "Juan", Email: "juan@example.com", Phone: "+63 917 123 4567", Type: "individual"}

	tests := []struct {
		name    string
		mutate  func(r *registerRequest)
		wantMsg string
	}{
		{name: "valid", mutate: func(*registerRequest) {}},
		{name: "local phone format", mutate: func(r *registerRequest) { r.Phone = "09171234567" }},
		{name: "missing first name", mutate: func(r *registerRequest) { r.FirstName = "" }, wantMsg: "first_name is required"},
		{name: "bad email", mutate: func(r *registerRequest) { r.Email = "juan" }, wantMsg: "email must be a valid email address"},
		{name: "letters in phone", mutate: func(r *registerRequest) { r.Phone = "call me maybe" }, wantMsg: "phone must be a valid phone number"},
		{name: "short phone", mutate: func(r *registerRequest) { r.Phone = "123" }, wantMsg: "phone must be a valid phone number"},
		{name: "unknown provider type", mutate: func(r *registerRequest) { r.Type = "company" }, wantMsg: "type must be one of individual agency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidateStruct_Upload(t *testing.T) {
	tests := []struct {
		name    string
		file    *multipart.FileHeader
		wantMsg string
	}{
		{name: "pdf within limit", file: upload("application/pdf", 512*1024)},
		{name: "png at limit", file: upload("image/png", 1024*1024)},
		{name: "missing file", file: nil, wantMsg: "file is required"},
		{name: "unsupported type", file: upload("text/plain", 10), wantMsg: "file must be one of image/png application/pdf"},
		{name: "no content type", file: upload("", 10), wantMsg: "file must be one of image/png application/pdf"},
		{name: "too large", file: upload("application/pdf", 2*1024*1024), wantMsg: "file must not exceed 1 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&uploadRequest{File: tt.file})
			if tt.wantMsg == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid body", body: `{"first_name":"Ana","email":"ana@example.com","phone":"09171234567","type":"agency"}`},
		{name: "failing rule", body: `{"first_name":"Ana","email":"ana@example.com","phone":"09171234567","type":"solo"}`, wantErr: true},
		{name: "malformed json", body: `{"first_name":`, wantErr: true},
		{name: "empty object", body: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req registerRequest

			err := validator.Validate(strings.NewReader(tt.body), &req)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "Ana", req.FirstName)

				return
			}

			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	require.NoError(t, validator.ValidateVar("bookings", "oneof=bookings payments chat reviews"))
	require.NoError(t, validator.ValidateVar(4, "min=1,max=5"))

	err := validator.ValidateVar(6, "min=1,max=5")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}
