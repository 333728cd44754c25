package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/mocks"
	"github.com/auradevelopment5m/aura-tictactoe/internal/model"
	"github.com/auradevelopment5m/aura-tictactoe/internal/persist"
	"github.com/auradevelopment5m/aura-tictactoe/internal/registry/memory"
	"github.com/auradevelopment5m/aura-tictactoe/internal/services/bot"
	"github.com/auradevelopment5m/aura-tictactoe/internal/services/session"
	"github.com/auradevelopment5m/aura-tictactoe/internal/testutil"
	"github.com/auradevelopment5m/aura-tictactoe/internal/ws"
)

type GatewaySuite struct {
	suite.Suite
	registry *memory.Registry
	random   *mocks.MockRandom
	server   *httptest.Server
}

func TestGatewaySuite(t *testing.T) {
	suite.Run(t, new(GatewaySuite))
}

func (s *GatewaySuite) SetupTest() {
	s.registry = memory.New()
	s.random = mocks.NewMockRandom()
	clk := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	logger := testutil.NopLogger()

	hub := ws.NewHub(logger)
	writer := persist.NewWriter(persist.NewMemoryStore(clk), s.random, clk, logger)
	controller := session.NewController(s.registry, hub, writer, bot.NewSelector(s.random), clk, s.random, logger)
	gateway := ws.NewGateway(hub, controller, logger)

	s.server = httptest.NewServer(http.HandlerFunc(gateway.Handle))
	s.T().Cleanup(s.server.Close)
}

func (s *GatewaySuite) dial(query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { conn.Close() })
	return conn
}

func (s *GatewaySuite) readFrame(conn *websocket.Conn) ws.Frame {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f ws.Frame
	s.Require().NoError(conn.ReadJSON(&f))
	return f
}

func (s *GatewaySuite) expect(conn *websocket.Conn, event string, payload any) {
	f := s.readFrame(conn)
	s.Require().Equal(event, f.Event)
	if payload != nil {
		s.Require().NoError(json.Unmarshal(f.Data, payload))
	}
}

func (s *GatewaySuite) sendMove(conn *websocket.Conn, position int) {
	s.Require().NoError(conn.WriteJSON(map[string]any{
		"event": "move",
		"data":  map[string]int{"position": position},
	}))
}

func (s *GatewaySuite) TestCreateSessionAssignsX() {
	conn := s.dial("session=abc123&player=alice")

	var created model.SessionCreatedPayload
	s.expect(conn, model.EventSessionCreated, &created)
	s.Equal(model.SessionCode("ABC123"), created.SessionID)
	s.Equal(model.SymbolX, created.Symbol)
	s.Equal("alice", created.PlayerName)
}

func (s *GatewaySuite) TestJoinStartsGameForBoth() {
	connX := s.dial("session=ABC123&player=alice")
	s.expect(connX, model.EventSessionCreated, nil)

	connO := s.dial("session=ABC123&player=bob&join=true")

	var created model.SessionCreatedPayload
	s.expect(connO, model.EventSessionCreated, &created)
	s.Equal(model.SymbolO, created.Symbol)

	var startX, startO model.GameStartPayload
	s.expect(connX, model.EventGameStart, &startX)
	s.expect(connO, model.EventGameStart, &startO)
	s.Equal("alice", startX.Players.X)
	s.Equal("bob", startX.Players.O)
	s.Equal(model.SymbolX, startO.CurrentPlayer)
}

func (s *GatewaySuite) TestMoveIsBroadcastToBoth() {
	connX := s.dial("session=ABC123&player=alice")
	s.expect(connX, model.EventSessionCreated, nil)
	connO := s.dial("session=ABC123&player=bob&join=true")
	s.expect(connO, model.EventSessionCreated, nil)
	s.expect(connX, model.EventGameStart, nil)
	s.expect(connO, model.EventGameStart, nil)

	s.sendMove(connX, 4)

	var moveX, moveO model.MoveMadePayload
	s.expect(connX, model.EventMoveMade, &moveX)
	s.expect(connO, model.EventMoveMade, &moveO)
	s.Equal(model.LastMove{Position: 4, Symbol: model.SymbolX}, moveX.LastMove)
	s.Equal(model.SymbolO, moveO.CurrentPlayer)
}

func (s *GatewaySuite) TestRejectedMoveGoesToSenderOnly() {
	connX := s.dial("session=ABC123&player=alice")
	s.expect(connX, model.EventSessionCreated, nil)
	connO := s.dial("session=ABC123&player=bob&join=true")
	s.expect(connO, model.EventSessionCreated, nil)
	s.expect(connX, model.EventGameStart, nil)
	s.expect(connO, model.EventGameStart, nil)

	s.sendMove(connO, 4)

	var msg model.ErrorMessagePayload
	s.expect(connO, model.EventErrorMessage, &msg)
	s.Equal("Not your turn", msg.Message)

	// The accepted move still reaches both.
	s.sendMove(connX, 4)
	s.expect(connX, model.EventMoveMade, nil)
	s.expect(connO, model.EventMoveMade, nil)
}

func (s *GatewaySuite) TestJoinMissingSessionIsRejected() {
	conn := s.dial("session=NOPE99&player=bob&join=true")

	var errPayload model.SessionErrorPayload
	s.expect(conn, model.EventSessionError, &errPayload)
	s.Equal(model.ErrorCodeNotFound, errPayload.Code)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f ws.Frame
	s.Error(conn.ReadJSON(&f))
}

func (s *GatewaySuite) TestMissingParamsIsRejected() {
	conn := s.dial("session=ABC123")

	var errPayload model.SessionErrorPayload
	s.expect(conn, model.EventSessionError, &errPayload)
	s.Equal(model.ErrorCodeMissingParams, errPayload.Code)
}

func (s *GatewaySuite) TestInvalidBotDifficultyIsRejected() {
	conn := s.dial("session=ABC123&player=alice&bot=impossible")

	var errPayload model.SessionErrorPayload
	s.expect(conn, model.EventSessionError, &errPayload)
	s.Equal(model.ErrorCodeInvalidDifficulty, errPayload.Code)
}

func (s *GatewaySuite) TestBotGameStartsAndReplies() {
	conn := s.dial("session=ABC123&player=alice&bot=hard")
	s.expect(conn, model.EventSessionCreated, nil)

	var start model.GameStartPayload
	s.expect(conn, model.EventGameStart, &start)
	s.Equal("Computer", start.Players.O)

	s.sendMove(conn, 0)

	var first, second model.MoveMadePayload
	s.expect(conn, model.EventMoveMade, &first)
	s.expect(conn, model.EventMoveMade, &second)
	s.Equal(model.SymbolX, first.LastMove.Symbol)
	s.Equal(model.SymbolO, second.LastMove.Symbol)
	s.Equal(model.SymbolX, second.CurrentPlayer)
}

func (s *GatewaySuite) TestDisconnectNotifiesRemainingPlayer() {
	connX := s.dial("session=ABC123&player=alice")
	s.expect(connX, model.EventSessionCreated, nil)
	connO := s.dial("session=ABC123&player=bob&join=true")
	s.expect(connO, model.EventSessionCreated, nil)
	s.expect(connX, model.EventGameStart, nil)
	s.expect(connO, model.EventGameStart, nil)

	connO.Close()

	var gone model.PlayerDisconnectedPayload
	s.expect(connX, model.EventPlayerDisconnected, &gone)
	s.Equal("bob", gone.Player)
	s.Equal(model.SymbolO, gone.Symbol)

	sess, ok := s.registry.Get("ABC123")
	s.Require().True(ok)
	sess.Lock()
	defer sess.Unlock()
	s.Equal(model.StatusWaiting, sess.Status)
}

func (s *GatewaySuite) TestRematchResetsForBoth() {
	connX := s.dial("session=ABC123&player=alice")
	s.expect(connX, model.EventSessionCreated, nil)
	connO := s.dial("session=ABC123&player=bob&join=true")
	s.expect(connO, model.EventSessionCreated, nil)
	s.expect(connX, model.EventGameStart, nil)
	s.expect(connO, model.EventGameStart, nil)

	for i, pos := range []int{0, 4, 1, 5, 2} {
		conn := connX
		if i%2 == 1 {
			conn = connO
		}
		s.sendMove(conn, pos)
		s.expect(connX, frameEventForMove(i), nil)
		s.expect(connO, frameEventForMove(i), nil)
	}

	s.Require().NoError(connO.WriteJSON(map[string]any{"event": "rematch"}))

	var rematch model.RematchStartPayload
	s.expect(connX, model.EventRematchStart, &rematch)
	s.expect(connO, model.EventRematchStart, nil)
	s.Equal(model.Board{}, rematch.Board)
	s.Equal(model.Scores{X: 1}, rematch.Scores)
}

// frameEventForMove names the broadcast for the i-th move of the
// five-move X win sequence used above.
func frameEventForMove(i int) string {
	if i == 4 {
		return model.EventGameOver
	}
	return model.EventMoveMade
}
