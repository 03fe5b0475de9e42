package controllers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/cropwatch/cropwatch-backend/api/responses"
	"github.com/cropwatch/cropwatch-backend/api/validators"
	"github.com/cropwatch/cropwatch-backend/internal/diagnosis"
	pkgerrors "github.com/cropwatch/cropwatch-backend/pkg/errors"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

// DefaultMaxImageBytes caps uploaded leaf images.
const DefaultMaxImageBytes = 16 << 20

const missingImageMessage = "Missing required field: image"

// DiseasePredictor classifies a leaf image.
type DiseasePredictor interface {
	PredictBase64(ctx context.Context, payload string, email *string) (*diagnosis.Result, error)
	Predict(ctx context.Context, image []byte, email *string) (*diagnosis.Result, error)
}

// Predict serves POST /predict. The image may arrive as JSON (base64 or data
// URL), as the "image" file of a multipart form, or as a raw image/* body.
func Predict(svc DiseasePredictor, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prediction service unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

		var (
			result *diagnosis.Result
			err    error
		)
		switch {
		case mediaType == "multipart/form-data":
			result, err = predictMultipart(r, svc, maxBytes)
		case strings.HasPrefix(mediaType, "image/") || mediaType == "application/octet-stream":
			result, err = predictRaw(r, svc)
		default:
			result, err = predictJSON(r, svc)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func predictJSON(r *http.Request, svc DiseasePredictor) (*diagnosis.Result, error) {
	var body diagnosis.PredictRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		if tooLarge(err) {
			return nil, imageTooLarge()
		}
		return nil, err
	}
	if !body.HasImage() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missingImageMessage)
	}
	email := body.Email
	if email == nil {
		email = queryEmail(r)
	}
	return svc.PredictBase64(r.Context(), body.Payload(), email)
}

func predictMultipart(r *http.Request, svc DiseasePredictor, maxBytes int64) (*diagnosis.Result, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if tooLarge(err) {
			return nil, imageTooLarge()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid multipart form")
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("image")
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missingImageMessage)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid image upload")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missingImageMessage)
	}

	email := validators.OptionalString(r.FormValue("email"), validators.MaxEmailLength)
	if email == nil {
		email = queryEmail(r)
	}
	return svc.Predict(r.Context(), data, email)
}

func predictRaw(r *http.Request, svc DiseasePredictor) (*diagnosis.Result, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		if tooLarge(err) {
			return nil, imageTooLarge()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request body")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missingImageMessage)
	}
	return svc.Predict(r.Context(), data, queryEmail(r))
}

func queryEmail(r *http.Request) *string {
	return validators.OptionalString(r.URL.Query().Get("email"), validators.MaxEmailLength)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func imageTooLarge() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "Image exceeds the upload size limit")
}
