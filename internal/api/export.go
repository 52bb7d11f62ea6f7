package api

import (
	"fmt"
	"net/http"
	"time"

	"sharehub/internal/export"
)

// handleExportBookings streams the full bookings ledger as an xlsx workbook.
func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.bookings.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if err := export.WriteBookingsXLSX(w, bookings); err != nil {
		s.logger.Error().Err(err).Msg("bookings export failed")
	}
}
