package dto

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"taskpal/shared/constant"
	"taskpal/shared/failure"
	"taskpal/shared/validator"
)

type UploadImageRequest struct {
	File    *multipart.FileHeader `json:"file" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg,maxfilesize=5"`
	Content multipart.File        `json:"-"`
}

// FromRequest reads the "file" part of a multipart request. The caller closes Content.
func (u *UploadImageRequest) FromRequest(r *http.Request) error {
	file, header, err := formFile(r)
	if err != nil {
		return err
	}

	u.File, u.Content = header, file

	if err = validator.ValidateStruct(u); err != nil {
		file.Close()

		return err //nolint:wrapcheck
	}

	return nil
}

type UploadDocumentRequest struct {
	File    *multipart.FileHeader `json:"file" swaggerignore:"true" validate:"required,mimetypes=image/png image/jpg image/jpeg application/pdf,maxfilesize=10"`
	Content multipart.File        `json:"-"`
}

func (u *UploadDocumentRequest) FromRequest(r *http.Request) error {
	file, header, err := formFile(r)
	if err != nil {
		return err
	}

	u.File, u.Content = header, file

	if err = validator.ValidateStruct(u); err != nil {
		file.Close()

		return err //nolint:wrapcheck
	}

	return nil
}

type UploadResponse struct {
	URL string `json:"url"`
}

func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return nil, nil, failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err)) //nolint:wrapcheck
	}

	file, header, err := r.FormFile(constant.FormFile)
	if err != nil {
		return nil, nil, failure.BadRequest(fmt.Errorf("failed to read %q form file: %w", constant.FormFile, err)) //nolint:wrapcheck
	}

	return file, header, nil
}
