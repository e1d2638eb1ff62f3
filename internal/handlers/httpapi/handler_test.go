package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/caravangame/caravan-api/internal/catalogs"
	"github.com/caravangame/caravan-api/internal/engine"
	"github.com/caravangame/caravan-api/internal/entities"
	"github.com/caravangame/caravan-api/internal/handlers/httpapi"
	"github.com/caravangame/caravan-api/internal/orchestrators/expedition"
	"github.com/caravangame/caravan-api/internal/pkg/clock"
	"github.com/caravangame/caravan-api/internal/pkg/idgen"
	"github.com/caravangame/caravan-api/internal/repositories/gamestate"
	"github.com/caravangame/caravan-api/internal/testutils"
)

// The handler tests run against a real orchestrator wired over
// miniredis so they cover the full decode/delegate/encode path.
type HandlerTestSuite struct {
	suite.Suite
	cleanup func()
	clock   *clock.Fake
	server  *httptest.Server
}

func (s *HandlerTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	s.clock = clock.NewFake(time.Unix(1_700_000_000, 0))

	eng, err := engine.New(&engine.Config{
		Catalog:     catalogs.Default(),
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("test"),
	})
	s.Require().NoError(err)

	svc, err := expedition.NewOrchestrator(&expedition.Config{
		GameStateRepo: gamestate.NewRedisRepository(client),
		Engine:        eng,
	})
	s.Require().NoError(err)

	handler, err := httpapi.NewHandler(&httpapi.Config{ExpeditionService: svc})
	s.Require().NoError(err)

	s.server = httptest.NewServer(handler.Routes())
}

func (s *HandlerTestSuite) TearDownTest() {
	s.server.Close()
	s.cleanup()
}

func (s *HandlerTestSuite) post(path string, body any) *http.Response {
	data, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.server.URL+path, "application/json", bytes.NewReader(data))
	s.Require().NoError(err)
	return resp
}

func (s *HandlerTestSuite) get(path string) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	return resp
}

func (s *HandlerTestSuite) decodeState(resp *http.Response) *entities.GameState {
	defer func() { _ = resp.Body.Close() }()
	var state entities.GameState
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&state))
	return &state
}

func (s *HandlerTestSuite) decodeError(resp *http.Response) map[string]string {
	defer func() { _ = resp.Body.Close() }()
	var body map[string]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (s *HandlerTestSuite) newGame(slot string) *entities.GameState {
	resp := s.post("/v1/games", map[string]string{
		"slot":        slot,
		"seed":        "handler-seed",
		"player_name": "Ada",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	return s.decodeState(resp)
}

func (s *HandlerTestSuite) TestHealth() {
	resp := s.get("/healthz")
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("application/json", resp.Header.Get("Content-Type"))
}

func (s *HandlerTestSuite) TestNewGame() {
	state := s.newGame("main")

	s.NotEmpty(state.ID)
	s.Len(state.Characters, 1)
	s.Equal("Ada", state.Characters[0].Name)
}

func (s *HandlerTestSuite) TestNewGame_InvalidBody() {
	resp, err := http.Post(s.server.URL+"/v1/games", "application/json", bytes.NewReader([]byte("{not json")))
	s.Require().NoError(err)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	body := s.decodeError(resp)
	s.Equal("INVALID_ARGUMENT", body["code"])
}

func (s *HandlerTestSuite) TestGetState() {
	created := s.newGame("main")

	resp := s.get("/v1/games/main")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	state := s.decodeState(resp)
	s.Equal(created.ID, state.ID)
}

func (s *HandlerTestSuite) TestGetState_NotFound() {
	resp := s.get("/v1/games/missing")

	s.Equal(http.StatusNotFound, resp.StatusCode)
	body := s.decodeError(resp)
	s.Equal("NOT_FOUND", body["code"])
	s.Contains(body["message"], "missing")
}

func (s *HandlerTestSuite) TestGetState_CatchesUp() {
	created := s.newGame("main")
	hungerBefore := created.Characters[0].Needs.Hunger

	s.clock.Advance(2 * time.Hour)

	resp := s.get("/v1/games/main")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	state := s.decodeState(resp)
	s.Less(state.Characters[0].Needs.Hunger, hungerBefore)
}

func (s *HandlerTestSuite) TestListSaves() {
	s.newGame("alpha")
	s.newGame("beta")

	resp := s.get("/v1/games")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	var body map[string][]string
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	s.Equal([]string{"alpha", "beta"}, body["slots"])
}

func (s *HandlerTestSuite) TestDeleteSave() {
	s.newGame("main")

	req, err := http.NewRequest(http.MethodDelete, s.server.URL+"/v1/games/main", nil)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusNoContent, resp.StatusCode)

	getResp := s.get("/v1/games/main")
	s.Equal(http.StatusNotFound, getResp.StatusCode)
	_ = getResp.Body.Close()
}

func (s *HandlerTestSuite) TestSetLocation() {
	s.newGame("main")

	resp := s.post("/v1/games/main/location", map[string]float64{
		"lat": 57.64911,
		"lon": 10.40744,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	state := s.decodeState(resp)
	s.Equal("u4pruyd", state.LocationTileID)
}

func (s *HandlerTestSuite) TestSetLocation_Invalid() {
	s.newGame("main")

	resp := s.post("/v1/games/main/location", map[string]float64{
		"lat": 95,
		"lon": 0,
	})
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerTestSuite) TestAdvanceTime() {
	created := s.newGame("main")
	thirstBefore := created.Characters[0].Needs.Thirst

	resp := s.post("/v1/games/main/time", map[string]int64{
		"delta_ms": int64(time.Hour / time.Millisecond),
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	state := s.decodeState(resp)
	s.Less(state.Characters[0].Needs.Thirst, thirstBefore)
}

func (s *HandlerTestSuite) TestQueueJob() {
	created := s.newGame("main")
	charID := created.Characters[0].ID

	resp := s.post("/v1/games/main/jobs", map[string]string{
		"character_id": charID,
		"job_id":       "scavenge",
		"pace":         "normal",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	var entry entities.JobEntry
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&entry))
	s.Equal("scavenge", entry.JobID)
	s.NotZero(entry.StartAt)
}

func (s *HandlerTestSuite) TestQueueJob_UnknownJob() {
	created := s.newGame("main")

	resp := s.post("/v1/games/main/jobs", map[string]string{
		"character_id": created.Characters[0].ID,
		"job_id":       "mine_gold",
	})
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerTestSuite) TestCancelJob() {
	created := s.newGame("main")
	charID := created.Characters[0].ID

	resp := s.post("/v1/games/main/jobs", map[string]string{
		"character_id": charID,
		"job_id":       "scavenge",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	var entry entities.JobEntry
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&entry))

	cancelResp := s.post("/v1/games/main/jobs/cancel", map[string]string{
		"character_id": charID,
		"entry_id":     entry.ID,
	})
	s.Require().Equal(http.StatusOK, cancelResp.StatusCode)

	state := s.decodeState(cancelResp)
	s.Empty(state.Characters[0].Queue)
}

func (s *HandlerTestSuite) TestQueueCraft() {
	s.newGame("main")

	resp := s.post("/v1/games/main/crafts", map[string]string{
		"station_id": "workbench",
		"recipe_id":  "craft_waterskin",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	var entry entities.CraftEntry
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&entry))
	s.Equal("craft_waterskin", entry.RecipeID)
}

func (s *HandlerTestSuite) TestCancelCraft() {
	s.newGame("main")

	resp := s.post("/v1/games/main/crafts", map[string]string{
		"station_id": "workbench",
		"recipe_id":  "craft_waterskin",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	var entry entities.CraftEntry
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&entry))

	cancelResp := s.post("/v1/games/main/crafts/cancel", map[string]string{
		"station_id": "workbench",
		"entry_id":   entry.ID,
	})
	s.Require().Equal(http.StatusOK, cancelResp.StatusCode)

	state := s.decodeState(cancelResp)
	s.Empty(state.Stations["workbench"].Queue)
}

func (s *HandlerTestSuite) TestUpgradeStation_InsufficientMaterials() {
	s.newGame("main")

	resp := s.post("/v1/games/main/stations/upgrade", map[string]string{
		"station_id": "storage",
	})
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusPreconditionFailed, resp.StatusCode)
	body := s.decodeError(resp)
	s.Equal("FAILED_PRECONDITION", body["code"])
}

func (s *HandlerTestSuite) TestTransferItems() {
	created := s.newGame("main")
	charID := created.Characters[0].ID

	resp := s.post("/v1/games/main/transfer", map[string]any{
		"character_id": charID,
		"direction":    "to_pockets",
		"item_id":      "berries",
		"quantity":     2,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	state := s.decodeState(resp)
	s.Equal(int32(2), state.Characters[0].Pockets.StackQuantity("berries"))
}

func (s *HandlerTestSuite) TestRecruitSurvivor() {
	s.newGame("main")

	resp := s.post("/v1/games/main/recruit", map[string]string{
		"template_id": "mara",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	defer func() { _ = resp.Body.Close() }()

	var char entities.Character
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&char))
	s.Equal("Mara", char.Name)
}

func (s *HandlerTestSuite) TestUseItem() {
	created := s.newGame("main")
	charID := created.Characters[0].ID
	thirstBefore := created.Characters[0].Needs.Thirst

	s.clock.Advance(time.Hour)

	resp := s.post("/v1/games/main/items/use", map[string]string{
		"character_id": charID,
		"item_id":      "water_clean",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	state := s.decodeState(resp)
	s.Greater(state.Characters[0].Needs.Thirst, thirstBefore-4.0)
}

func (s *HandlerTestSuite) TestEquipItem_NotInPockets() {
	created := s.newGame("main")

	resp := s.post("/v1/games/main/equipment/equip", map[string]string{
		"character_id": created.Characters[0].ID,
		"item_uid":     "test-999",
	})
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusNotFound, resp.StatusCode)
	body := s.decodeError(resp)
	s.Equal("NOT_FOUND", body["code"])
}

func (s *HandlerTestSuite) TestUnequipItem_EmptySlot() {
	created := s.newGame("main")

	resp := s.post("/v1/games/main/equipment/unequip", map[string]string{
		"character_id": created.Characters[0].ID,
		"equip_slot":   "tool",
	})
	defer func() { _ = resp.Body.Close() }()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
