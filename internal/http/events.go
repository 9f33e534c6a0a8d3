package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/JocaCola1972/LevelUP-Connect/internal/club"
	"github.com/JocaCola1972/LevelUP-Connect/internal/pubsub"
	"github.com/charmbracelet/log"
)

// ClubEventHandler receives Pub/Sub push deliveries of club events and posts
// the line-up of the affected slot whenever a booking changed.
func (s *Server) ClubEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received club event", "body", string(bodyBytes))

		var pubsubMsg pushMessage
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event pubsub.ClubEvent
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}

		switch event.Type {
		case pubsub.EventBookingCreated, pubsub.EventBookingUpdated, pubsub.EventBookingCancelled:
			slot := club.SlotTime(event.SlotTime)
			if err := s.Notifier.SendSlotLineup(slot, s.lineup(slot), isDryRunFromContext(r)); err != nil {
				log.Error("Failed to post slot line-up", "slot", slot, "error", err)
			}
		default:
			log.Debug("Ignoring club event", "type", event.Type)
		}
		w.Write([]byte("OK"))
	}
}

// lineup resolves the members of every booking in slot.
func (s *Server) lineup(slot club.SlotTime) [][]club.Player {
	var out [][]club.Player
	for _, b := range s.Store.BookingsForSlot(slot) {
		members := make([]club.Player, 0, len(b.PlayerIDs))
		for _, id := range b.PlayerIDs {
			if p, err := s.Store.Player(id); err == nil {
				members = append(members, p)
			}
		}
		out = append(out, members)
	}
	return out
}
