package booking

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"labdesk/db"
	"labdesk/globals"
	"labdesk/middleware"
	"labdesk/rdx"
	"labdesk/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// ConfirmationPayload returns the signed payload embedded in the QR code:
// booking id|date|kind|signature. The signature lets the front desk check a
// printed sheet without a database round-trip.
func ConfirmationPayload(id int64, date, kind string) string {
	data := fmt.Sprintf("%d|%s|%s", id, date, kind)
	h := hmac.New(sha256.New, globals.JwtSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// Confirmation renders a PDF confirmation sheet for a booking.
//
// Endpoint: GET /api/bookings/:id/confirmation (owner or admin)
func (h *Handler) Confirmation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid booking id")
		return
	}

	b, err := h.Bookings.Get(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}

	claims := middleware.ClaimsFromRequest(r)
	owner := b.UserID != nil && claims != nil && *b.UserID == claims.UserID
	if !owner && !middleware.IsAdmin(claims) {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	qrPNG, err := qrcode.Encode(ConfirmationPayload(b.ID, b.Date, string(b.Kind)), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	holder := ""
	if b.UserID != nil {
		holder = *b.UserID
		if name, err := rdx.RdxGet("users:" + *b.UserID); err == nil && name != "" {
			holder = name
		} else if owner {
			holder = claims.Name
		}
	} else if b.GuestEmail != nil {
		holder = *b.GuestEmail
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking #%d (%s)", b.ID, b.Kind))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", b.Date))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Holder: %s", holder))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s", b.Status))
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=booking-%d.pdf", b.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
