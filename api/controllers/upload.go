package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/procurement-backend/api/responses"
	"github.com/angelmondragon/procurement-backend/internal/extraction"
	"github.com/angelmondragon/procurement-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/procurement-backend/pkg/errors"
	"github.com/angelmondragon/procurement-backend/pkg/logger"
)

const uploadField = "file"

// TextExtractor reads the plain text of a PDF stored at path.
type TextExtractor func(ctx context.Context, path string) (string, error)

// OfferParser turns extracted text into offer fields. It never fails.
type OfferParser interface {
	ParseOffer(ctx context.Context, text string) extraction.Outcome
}

type offerLineResponse struct {
	PositionDescription *string  `json:"position_description"`
	UnitPrice           *float64 `json:"unit_price"`
	Amount              *float64 `json:"amount"`
	Unit                *string  `json:"unit"`
	TotalPrice          *float64 `json:"total_price"`
}

type offerResponse struct {
	VendorName *string             `json:"vendor_name"`
	VATID      *string             `json:"vat_id"`
	Department *string             `json:"department"`
	OrderLines []offerLineResponse `json:"order_lines"`
	TotalCost  *float64            `json:"total_cost"`
	Source     string              `json:"source"`
}

func newOfferResponse(out extraction.Outcome) offerResponse {
	resp := offerResponse{
		VendorName: out.Fields.VendorName,
		VATID:      out.Fields.VATID,
		Department: out.Fields.Department,
		OrderLines: make([]offerLineResponse, 0, len(out.Fields.OrderLines)),
		TotalCost:  floatOrNil(out.Fields.TotalCost),
		Source:     out.Source.String(),
	}
	for _, line := range out.Fields.OrderLines {
		resp.OrderLines = append(resp.OrderLines, offerLineResponse{
			PositionDescription: line.PositionDescription,
			UnitPrice:           floatOrNil(line.UnitPrice),
			Amount:              floatOrNil(line.Amount),
			Unit:                line.Unit,
			TotalPrice:          floatOrNil(line.TotalPrice),
		})
	}
	return resp
}

func floatOrNil(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// UploadPDF extracts a structured offer guess from an uploaded vendor PDF. The
// upload is spooled to a temp file that is removed before the handler returns.
func UploadPDF(cfg config.UploadsConfig, extract TextExtractor, parser OfferParser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if extract == nil || parser == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "extraction unavailable"))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxBytes())
		file, header, err := r.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file too large").
					WithDetails(map[string]any{"max_bytes": cfg.MaxBytes()}))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnprocessable, err, "file is required").
				WithDetails(map[string]string{uploadField: "is required"}))
			return
		}
		defer file.Close()

		if !strings.HasSuffix(header.Filename, ".pdf") {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Only PDF files are allowed").
				WithDetails(map[string]string{"filename": header.Filename}))
			return
		}

		ctx := logg.WithFields(r.Context(), map[string]any{
			"filename":   header.Filename,
			"size_bytes": header.Size,
		})

		path, err := spool(cfg.TempDir, file)
		if path != "" {
			defer func() {
				if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
					logg.Warn(logg.WithField(ctx, "error", rmErr.Error()), "upload.cleanup_failed")
				}
			}()
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, processingError(err))
			return
		}

		text, err := extract(ctx, path)
		if err != nil {
			responses.WriteError(ctx, logg, w, processingError(err))
			return
		}

		outcome := parser.ParseOffer(ctx, text)
		ctx = logg.WithField(ctx, "source", outcome.Source.String())
		logg.Info(ctx, "upload.parsed")

		responses.WriteSuccess(w, newOfferResponse(outcome))
	}
}

// spool copies the upload to a new temp file and returns its path. The path
// is returned even on a failed copy so the caller can clean it up.
func spool(dir string, src io.Reader) (string, error) {
	tmp, err := os.CreateTemp(dir, "offer-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := tmp.Name()
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return path, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return path, fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

func processingError(err error) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeExtraction, err, fmt.Sprintf("Error processing PDF: %s", err.Error()))
}
