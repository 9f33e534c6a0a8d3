package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	phone      string
	password   string
	query      string
	playerIDs  []string
	mode       string
	leaveWhole bool
	leaveFor   string
	announce   bool
)

func init() {
	loginCmd.Flags().StringVar(&phone, "phone", "", "Phone number of the player")
	loginCmd.Flags().StringVar(&password, "password", "", "Password, or the new password on first login")
	loginCmd.MarkFlagRequired("phone")
	loginCmd.MarkFlagRequired("password")

	playersCmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name, level or phone")

	bookCmd.Flags().StringSliceVar(&playerIDs, "players", nil, "Player ids to enroll")
	bookCmd.Flags().StringVar(&mode, "mode", "solo", "Booking mode: solo or doubles")
	partnerCmd.Flags().StringSliceVar(&playerIDs, "players", nil, "The two player ids of the pair")

	leaveCmd.Flags().BoolVar(&leaveWhole, "cancel", false, "Cancel the whole booking instead of leaving it to the partner")
	leaveCmd.Flags().StringVar(&leaveFor, "player", "", "Player to remove (admin only, defaults to yourself)")

	suggestCmd.Flags().BoolVar(&announce, "announce", false, "Post the suggestion to Slack")

	rootCmd.AddCommand(healthCmd, metricsCmd, sessionCmd, loginCmd, logoutCmd,
		playersCmd, slotsCmd, bookingsCmd, enrollCmd, bookCmd, partnerCmd,
		leaveCmd, cancelCmd, suggestCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show who is logged in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/session")
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with phone and password, setting the password on first login",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := performRequest(http.MethodPost, "/session/phone", map[string]string{"phone": phone})
		if err != nil {
			return err
		}
		var resp struct {
			State string `json:"state"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("unexpected response: %w", err)
		}
		step := "/session/password"
		if resp.State == "awaiting_setup" {
			fmt.Println("First login, setting password")
			step = "/session/setup"
		}
		_, err = performRequest(http.MethodPost, step, map[string]string{"password": password})
		return err
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := performRequest(http.MethodPost, "/session/logout", nil)
		return err
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players visible to the logged-in player",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/players"
		if query != "" {
			endpoint += "?q=" + url.QueryEscape(query)
		}
		return performGetRequest(endpoint)
	},
}

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Show today's slots and bookings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/slots")
	},
}

var bookingsCmd = &cobra.Command{
	Use:   "bookings",
	Short: "List the bookings visible to the logged-in player",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/bookings")
	},
}

var enrollCmd = &cobra.Command{
	Use:   "enroll <slot>",
	Short: "Enroll yourself in a slot, e.g. 08:00-09:30",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := performRequest(http.MethodPost, "/bookings/enroll", map[string]string{"slotTime": args[0]})
		return err
	},
}

var bookCmd = &cobra.Command{
	Use:   "book <slot>",
	Short: "Create a booking for other players (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := performRequest(http.MethodPost, "/bookings", map[string]any{
			"slotTime":  args[0],
			"playerIds": playerIDs,
			"mode":      mode,
		})
		return err
	},
}

var partnerCmd = &cobra.Command{
	Use:   "partner <booking-id>",
	Short: "Turn a solo booking into a pair (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := performRequest(http.MethodPost, "/bookings/"+args[0]+"/partner", map[string]any{"playerIds": playerIDs})
		return err
	},
}

var leaveCmd = &cobra.Command{
	Use:   "leave <booking-id>",
	Short: "Leave a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "drop_member"
		if leaveWhole {
			action = "cancel_booking"
		}
		_, err := performRequest(http.MethodPost, "/bookings/"+args[0]+"/leave", map[string]string{
			"playerId": leaveFor,
			"action":   action,
		})
		return err
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <booking-id>",
	Short: "Cancel a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := performRequest(http.MethodDelete, "/bookings/"+args[0], nil)
		return err
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the advisor for a balanced 2v2 match",
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/matchmaking"
		if announce {
			endpoint += "?announce=true"
		}
		_, err := performRequest(http.MethodPost, endpoint, nil)
		return err
	},
}

func performGetRequest(endpoint string) error {
	_, err := performRequest(http.MethodGet, endpoint, nil)
	return err
}

// performRequest sends body as JSON, prints the response and returns its body.
func performRequest(method, endpoint string, payload any) ([]byte, error) {
	target, err := url.Parse(host + endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if dryRun {
		q := target.Query()
		q.Set("dry_run", "true")
		target.RawQuery = q.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	if resp.StatusCode >= http.StatusBadRequest {
		return body, fmt.Errorf("server answered %s", resp.Status)
	}
	return body, nil
}
