package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"cardroom.io/server/game"
	"cardroom.io/server/host"
	"cardroom.io/server/lobby"
	"cardroom.io/server/minigame"
	"cardroom.io/server/poker"
)

var restLogger = log.With().Str("logger_name", "rest::rest").Logger()
var lobbyManager *lobby.Manager
var hostManager *host.Manager

//
// APP error definition
//
type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type signInResponse struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

func RunRestServer(lm *lobby.Manager, hm *host.Manager, mm *minigame.Manager, port int) {
	lobbyManager = lm
	hostManager = hm
	minigameManager = mm
	r := gin.Default()
	r.Use(rateLimitMiddleware())

	r.POST("/signin", signIn)
	r.POST("/sessions", createSession)
	r.POST("/sessions/:code/join", joinSession)
	r.POST("/sessions/:code/leave", leaveSession)
	r.POST("/sessions/:code/start", startGame)
	r.POST("/sessions/:code/action", submitAction)
	r.GET("/sessions/:code", getSession)

	registerMinigameRoutes(r)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Run(fmt.Sprintf(":%d", port))
}

// signIn hands out a player identity. There is no password; the ID is the
// bearer credential and the client keeps it for the rest of the session.
func signIn(c *gin.Context) {
	type Payload struct {
		Name string `json:"name"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		restLogger.Error().Msgf("Unable to parse signin request. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, signInResponse{
		PlayerID: uuid.New().String(),
		Name:     payload.Name,
	})
}

func createSession(c *gin.Context) {
	type Payload struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"name"`
		BuyIn    int64  `json:"buyIn"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		restLogger.Error().Msgf("Unable to parse create session request. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}
	if payload.PlayerID == "" {
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: "playerId is required",
		})
		return
	}

	s, err := lobbyManager.CreateSession(c.Request.Context(), payload.PlayerID, payload.Name, payload.BuyIn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactSession(s, payload.PlayerID))
}

func joinSession(c *gin.Context) {
	type Payload struct {
		PlayerID string `json:"playerId"`
		Name     string `json:"name"`
		BuyIn    int64  `json:"buyIn"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		restLogger.Error().Msgf("Unable to parse join request. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	s, err := lobbyManager.JoinSession(c.Request.Context(), c.Param("code"), payload.PlayerID, payload.Name, payload.BuyIn)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactSession(s, payload.PlayerID))
}

func leaveSession(c *gin.Context) {
	type Payload struct {
		PlayerID string `json:"playerId"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		restLogger.Error().Msgf("Unable to parse leave request. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	if err := lobbyManager.LeaveSession(c.Request.Context(), c.Param("code"), payload.PlayerID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func startGame(c *gin.Context) {
	type Payload struct {
		PlayerID string `json:"playerId"`
	}
	var payload Payload
	if err := c.BindJSON(&payload); err != nil {
		restLogger.Error().Msgf("Unable to parse start request. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	s, err := lobbyManager.StartGame(c.Request.Context(), c.Param("code"), payload.PlayerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactSession(s, payload.PlayerID))
}

func submitAction(c *gin.Context) {
	var action game.Action
	if err := c.BindJSON(&action); err != nil {
		restLogger.Error().Msgf("Unable to parse action request. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	s, err := hostManager.SubmitAction(c.Request.Context(), c.Param("code"), action)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactSession(s, action.PlayerID))
}

// getSession returns the viewer's redacted snapshot of the table. The
// viewer is identified by the player query param; without one, every hole
// card is hidden.
func getSession(c *gin.Context) {
	s, err := lobbyManager.GetSession(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, redactSession(s, c.Query("player")))
}

// writeError maps the typed domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch err.(type) {
	case lobby.NotFoundError:
		code = http.StatusNotFound
	case lobby.TableFullError:
		code = http.StatusConflict
	case lobby.InsufficientFundsError:
		code = http.StatusPaymentRequired
	case lobby.NotHostError:
		code = http.StatusForbidden
	case game.NotYourTurnError:
		code = http.StatusConflict
	case game.IllegalActionError:
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		restLogger.Error().Msgf("Request failed: %v", err)
	}
	c.IndentedJSON(code, appError{Code: code, Message: err.Error()})
}

type playerView struct {
	ID         string            `json:"id"`
	Name       string            `json:"name,omitempty"`
	Seat       int               `json:"seat"`
	Chips      int64             `json:"chips"`
	HoleCards  []poker.Card      `json:"holeCards,omitempty"`
	CurrentBet int64             `json:"currentBet"`
	Status     game.PlayerStatus `json:"status"`
	LastAction game.ActionKind   `json:"lastAction,omitempty"`
}

type sessionView struct {
	Code           string             `json:"code"`
	Players        map[string]*playerView `json:"players"`
	PlayerOrder    []string           `json:"playerOrder"`
	Status         game.SessionStatus `json:"status"`
	Pot            int64              `json:"pot"`
	CommunityCards []poker.Card       `json:"communityCards"`
	CurrentTurn    string             `json:"currentTurn,omitempty"`
	CurrentBet     int64              `json:"currentBet"`
	SmallBlind     int64              `json:"smallBlind"`
	BigBlind       int64              `json:"bigBlind"`
	DealerID       string             `json:"dealerId,omitempty"`
	Log            []string           `json:"log"`
}

// redactSession strips everything the viewer must not see: the undealt deck
// and every other player's hole cards.
func redactSession(s *game.Session, viewer string) sessionView {
	view := sessionView{
		Code:           s.Code,
		Players:        make(map[string]*playerView, len(s.Players)),
		PlayerOrder:    s.PlayerOrder,
		Status:         s.Status,
		Pot:            s.Pot,
		CommunityCards: s.CommunityCards,
		CurrentTurn:    s.CurrentTurn,
		CurrentBet:     s.CurrentBet,
		SmallBlind:     s.SmallBlind,
		BigBlind:       s.BigBlind,
		DealerID:       s.DealerID,
		Log:            s.Log,
	}
	for id, p := range s.Players {
		pv := &playerView{
			ID:         p.ID,
			Name:       p.Name,
			Seat:       p.Seat,
			Chips:      p.Chips,
			CurrentBet: p.CurrentBet,
			Status:     p.Status,
			LastAction: p.LastAction,
		}
		if id == viewer {
			pv.HoleCards = p.HoleCards
		}
		view.Players[id] = pv
	}
	return view
}
