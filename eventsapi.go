package spotscot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/alexandre-normand/spotscot/config"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// runEventsAPI serves the http endpoints of an events api deployment: the
// events callback, the slash command callback and the OAuth redirect of the
// install flow
func (s *Spotscot) runEventsAPI() (err error) {
	if s.installations == nil {
		return fmt.Errorf("events mode requires an installation store")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/slack/events", s.handleEventRequest)
	mux.HandleFunc("/slack/commands", s.handleCommandRequest)
	mux.HandleFunc("/slack/oauth", s.handleOAuthRequest)

	port := s.config.GetInt(config.PortKey)
	s.log.Printf("Listening for slack requests on port [%d]", port)

	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}

// readVerifiedBody reads a request body and checks its slack signature against
// the configured signing secret
func (s *Spotscot) readVerifiedBody(r *http.Request) (body []byte, err error) {
	body, err = ioutil.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, s.config.GetString(config.SigningSecretKey))
	if err != nil {
		return nil, err
	}

	if _, err = verifier.Write(body); err != nil {
		return nil, err
	}

	if err = verifier.Ensure(); err != nil {
		return nil, err
	}

	return body, nil
}

// handleEventRequest handles events api callbacks, including the url
// verification handshake slack runs when the endpoint is configured
func (s *Spotscot) handleEventRequest(w http.ResponseWriter, r *http.Request) {
	body, err := s.readVerifiedBody(r)
	if err != nil {
		s.log.Printf("Rejecting event request: %v", err)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		s.log.Printf("Error parsing event request: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if event.Type == slackevents.URLVerification {
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(challenge.Challenge))
		return
	}

	// Ack before doing any work so slack never retries a slow handler
	w.WriteHeader(http.StatusOK)
	go s.dispatchEventsAPIEvent(event)
}

// handleCommandRequest handles slash command callbacks. The empty 200 response
// acknowledges the command; the answer goes back through the response url
func (s *Spotscot) handleCommandRequest(w http.ResponseWriter, r *http.Request) {
	body, err := s.readVerifiedBody(r)
	if err != nil {
		s.log.Printf("Rejecting command request: %v", err)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// SlashCommandParse consumes the body so it gets restored after verification
	r.Body = ioutil.NopCloser(bytes.NewBuffer(body))

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		s.log.Printf("Error parsing command request: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	go s.processSlashCommand(&cmd)
}

// handleOAuthRequest completes the OAuth install flow by exchanging the
// temporary code for a bot token and persisting the installation
func (s *Spotscot) handleOAuthRequest(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "missing code")
		return
	}

	resp, err := slack.GetOAuthV2Response(http.DefaultClient,
		s.config.GetString(config.ClientIDKey),
		s.config.GetString(config.ClientSecretKey),
		code,
		s.config.GetString(config.OAuthRedirectURLKey))
	if err != nil {
		s.log.Printf("Error completing oauth exchange: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "oauth exchange failed")
		return
	}

	rawOAuth, err := json.Marshal(resp)
	if err != nil {
		s.log.Printf("Error serializing oauth response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	installation := store.Installation{
		TeamID:      resp.Team.ID,
		TeamName:    resp.Team.Name,
		BotToken:    resp.AccessToken,
		BotUserID:   resp.BotUserID,
		RawOAuth:    string(rawOAuth),
		InstalledAt: time.Now(),
	}

	// Reinstalls keep the existing channel binding
	if existing, err := s.installations.GetInstallation(resp.Team.ID); err == nil {
		installation.ActiveChannelID = existing.ActiveChannelID
	}

	if err := s.installations.PutInstallation(installation); err != nil {
		s.log.Printf("Error persisting installation for team [%s]: %v", resp.Team.ID, err)
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "failed to save installation")
		return
	}

	s.log.Printf("Installed on workspace [%s (%s)]", resp.Team.Name, resp.Team.ID)
	fmt.Fprintf(w, "🎉 All set! A workspace admin can now bind a channel with /setchannel.")
}
