package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardroom.io/server/minigame"
)

var minigameManager *minigame.Manager

func registerMinigameRoutes(r *gin.Engine) {
	r.POST("/minigames/limbo", playLimbo)
	r.POST("/minigames/slots", playSlots)
	r.POST("/minigames/scratch", playScratch)
	r.POST("/minigames/blackjack/deal", blackjackDeal)
	r.POST("/minigames/blackjack/hit", blackjackMove((*minigame.Manager).BlackjackHit))
	r.POST("/minigames/blackjack/stand", blackjackMove((*minigame.Manager).BlackjackStand))
	r.POST("/minigames/blackjack/double", blackjackMove((*minigame.Manager).BlackjackDouble))
	r.POST("/minigames/blackjack/split", blackjackMove((*minigame.Manager).BlackjackSplit))
}

type betPayload struct {
	PlayerID string  `json:"playerId"`
	Bet      int64   `json:"bet"`
	Target   float64 `json:"target,omitempty"`
}

func bindBet(c *gin.Context) (betPayload, bool) {
	var payload betPayload
	if err := c.BindJSON(&payload); err != nil {
		restLogger.Error().Msgf("Unable to parse minigame request. Error: %v", err)
		c.IndentedJSON(http.StatusBadRequest, appError{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return payload, false
	}
	return payload, true
}

func playLimbo(c *gin.Context) {
	payload, ok := bindBet(c)
	if !ok {
		return
	}
	result, err := minigameManager.PlayLimbo(payload.PlayerID, payload.Bet, payload.Target)
	if err != nil {
		writeMinigameError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func playSlots(c *gin.Context) {
	payload, ok := bindBet(c)
	if !ok {
		return
	}
	result, err := minigameManager.PlaySlots(payload.PlayerID, payload.Bet)
	if err != nil {
		writeMinigameError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func playScratch(c *gin.Context) {
	payload, ok := bindBet(c)
	if !ok {
		return
	}
	result, err := minigameManager.PlayScratch(payload.PlayerID, payload.Bet)
	if err != nil {
		writeMinigameError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func blackjackDeal(c *gin.Context) {
	payload, ok := bindBet(c)
	if !ok {
		return
	}
	view, err := minigameManager.BlackjackDeal(payload.PlayerID, payload.Bet)
	if err != nil {
		writeMinigameError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// blackjackMove adapts the mid-round moves, which share one shape: player ID
// in, updated view out.
func blackjackMove(move func(*minigame.Manager, string) (minigame.BlackjackView, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := bindBet(c)
		if !ok {
			return
		}
		view, err := move(minigameManager, payload.PlayerID)
		if err != nil {
			writeMinigameError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func writeMinigameError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch err.(type) {
	case minigame.InvalidBetError, minigame.IllegalMoveError:
		code = http.StatusBadRequest
	case minigame.InsufficientFundsError:
		code = http.StatusPaymentRequired
	}
	if code == http.StatusInternalServerError {
		restLogger.Error().Msgf("Minigame request failed: %v", err)
	}
	c.IndentedJSON(code, appError{Code: code, Message: err.Error()})
}
