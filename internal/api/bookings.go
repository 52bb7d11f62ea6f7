package api

import (
	"net/http"
	"time"

	"sharehub/internal/domain"
	"sharehub/internal/metrics"
	"sharehub/internal/models"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := actorID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var body struct {
		ItemID int64     `json:"item_id"`
		Start  time.Time `json:"start"`
		End    time.Time `json:"end"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.Create(r.Context(), uid, body.ItemID, body.Start, body.End)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.IncBookingCreated()
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	uid, err := actorID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, size, err := parsePaging(r, models.DefaultBookingPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.ListForBooker(r.Context(), uid, stateParam(r), from, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	uid, err := actorID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	from, size, err := parsePaging(r, models.DefaultBookingPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.ListForOwner(r.Context(), uid, stateParam(r), from, size)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := actorID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := s.bookings.GetByID(r.Context(), uid, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// handleUpdateBooking covers both sides of the lifecycle. An `approved` query
// parameter means the owner is deciding; otherwise the booker is revising the
// dates, which resets the booking to WAITING.
func (s *HTTPServer) handleUpdateBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := actorID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if raw := r.URL.Query().Get("approved"); raw != "" {
		var approved bool
		switch raw {
		case "true":
			approved = true
		case "false":
			approved = false
		default:
			writeError(w, http.StatusBadRequest, "approved must be true or false")
			return
		}

		booking, err := s.bookings.Decide(r.Context(), uid, id, approved)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		metrics.IncBookingDecision(booking.Status)
		writeJSON(w, http.StatusOK, booking)
		return
	}

	var patch models.BookingPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Start == nil && patch.End == nil {
		writeDomainError(w, domain.NewValidation("nothing to do"))
		return
	}

	booking, err := s.bookings.Revise(r.Context(), uid, id, patch)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func stateParam(r *http.Request) string {
	if state := r.URL.Query().Get("state"); state != "" {
		return state
	}
	return models.FilterAll
}
