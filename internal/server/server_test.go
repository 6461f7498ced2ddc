package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type viewBody struct {
	ID     string                `json:"id"`
	Rows   int                   `json:"rows"`
	Cols   int                   `json:"cols"`
	Mode   string                `json:"mode"`
	Start  *gridastar.Coordinate `json:"start"`
	Goal   *gridastar.Coordinate `json:"goal"`
	Status string                `json:"status"`
	Cells  [][]string            `json:"cells"`
}

type snapshotBody struct {
	Current gridastar.Coordinate   `json:"current"`
	Open    []gridastar.Coordinate `json:"open"`
	Closed  []gridastar.Coordinate `json:"closed"`
	Status  string                 `json:"status"`
	Done    bool                   `json:"done"`
	Found   bool                   `json:"found"`
	Path    []gridastar.Coordinate `json:"path"`
	Step    int                    `json:"step"`
}

type resultBody struct {
	Path          []gridastar.Coordinate `json:"path"`
	TotalCost     float64                `json:"total_cost"`
	ExpandedNodes int                    `json:"expanded_nodes"`
	Found         bool                   `json:"found"`
	Status        string                 `json:"status"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Search.StepInterval = time.Millisecond
	return New(cfg, nil)
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createSession(t *testing.T, srv *Server, body string) viewBody {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[viewBody](t, w)
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestCreateSession_Defaults(t *testing.T) {
	view := createSession(t, newTestServer(t), "")

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, 10, view.Rows)
	assert.Equal(t, "none", view.Mode)
	assert.Equal(t, "idle", view.Status)
	require.NotNil(t, view.Start)
	assert.Equal(t, gridastar.Coordinate{Row: 2, Col: 1}, *view.Start)
	assert.Equal(t, "start", view.Cells[2][1])
	assert.Equal(t, "end", view.Cells[2][5])
	assert.Equal(t, "wall", view.Cells[1][3])
	assert.Equal(t, "normal", view.Cells[0][0])
}

func TestCreateSession_Overrides(t *testing.T) {
	srv := newTestServer(t)

	view := createSession(t, srv, `{"scenario":"empty","size":6,"mode":"wall"}`)
	assert.Equal(t, 6, view.Cols)
	assert.Equal(t, "wall", view.Mode)

	view = createSession(t, srv, `{"scenario":"random","size":12,"random":{"clusters":4,"steps":60,"density":0.5,"seed":3}}`)
	assert.Equal(t, 12, view.Rows)
	require.NotNil(t, view.Goal)
}

func TestCreateSession_Invalid(t *testing.T) {
	srv := newTestServer(t)
	for _, body := range []string{
		`{"scenario":"maze"}`,
		`{"heuristic":"manhattan"}`,
		`{"size":-2}`,
		`{"scenario":"random","random":{"density":2}}`,
		`{not json`,
	} {
		w := do(t, srv, http.MethodPost, "/sessions", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestSolve(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "").ID

	for range 2 {
		w := do(t, srv, http.MethodPost, "/sessions/"+id+"/solve", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := decode[resultBody](t, w)
		assert.True(t, result.Found)
		assert.Equal(t, "succeeded", result.Status)
		assert.Equal(t, 6.0, result.TotalCost)
		assert.Equal(t, 24, result.ExpandedNodes)
		assert.Len(t, result.Path, 7)
	}

	view := decode[viewBody](t, do(t, srv, http.MethodGet, "/sessions/"+id, ""))
	assert.Equal(t, "result", view.Cells[2][1])
}

func TestSolve_NoPath(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, `{"scenario":"empty","size":3,"mode":"wall"}`).ID
	for _, cell := range [][2]int{{0, 1}, {1, 1}, {2, 1}} {
		body, _ := json.Marshal(map[string]int{"row": cell[0], "col": cell[1]})
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/click", string(body)).Code)
	}

	w := do(t, srv, http.MethodPost, "/sessions/"+id+"/solve", "")
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[resultBody](t, w)
	assert.False(t, result.Found)
	assert.Equal(t, "exhausted", result.Status)
}

func TestStep_RunsToCompletion(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "").ID

	first := decode[snapshotBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", ""))
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, gridastar.Coordinate{Row: 2, Col: 1}, first.Current)
	assert.Len(t, first.Open, 8)
	assert.Equal(t, "running", first.Status)

	var last snapshotBody
	for i := 0; i < 100 && !last.Done; i++ {
		w := do(t, srv, http.MethodPost, "/sessions/"+id+"/step", "")
		require.Equal(t, http.StatusOK, w.Code)
		last = decode[snapshotBody](t, w)
	}
	require.True(t, last.Done)
	assert.True(t, last.Found)
	assert.Equal(t, 24, last.Step)
	assert.Len(t, last.Path, 7)

	view := decode[viewBody](t, do(t, srv, http.MethodGet, "/sessions/"+id, ""))
	assert.Equal(t, "succeeded", view.Status)

	view = decode[viewBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/reset", ""))
	assert.Equal(t, "idle", view.Status)
	assert.Equal(t, "start", view.Cells[2][1])
}

func TestClick(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "").ID
	click := func(body string) *httptest.ResponseRecorder {
		return do(t, srv, http.MethodPost, "/sessions/"+id+"/click", body)
	}

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/mode", `{"mode":"wall"}`).Code)
	view := decode[viewBody](t, click(`{"row":2,"col":2}`))
	assert.Equal(t, "wall", view.Cells[2][2])

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/mode", `{"mode":"start"}`).Code)
	assert.Equal(t, http.StatusBadRequest, click(`{"row":1,"col":3}`).Code)
	assert.Equal(t, http.StatusBadRequest, click(`{"row":20,"col":20}`).Code)
	assert.Equal(t, http.StatusBadRequest, click(`{"row":1}`).Code)

	view = decode[viewBody](t, click(`{"row":0,"col":0}`))
	assert.Equal(t, "start", view.Cells[0][0])
	assert.Equal(t, "normal", view.Cells[2][1])
	assert.Equal(t, "wall", view.Mode)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/sessions/"+id+"/mode", `{"mode":"erase"}`).Code)
}

func TestClickDuringRunRestarts(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, `{"mode":"wall"}`).ID

	for range 3 {
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", "").Code)
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/click", `{"row":5,"col":5}`).Code)

	snapshot := decode[snapshotBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", ""))
	assert.Equal(t, 1, snapshot.Step)
}

func TestRejectedClickKeepsRun(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, `{"mode":"wall"}`).ID

	for range 3 {
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", "").Code)
	}
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/sessions/"+id+"/click", `{"row":99,"col":99}`).Code)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/mode", `{"mode":"start"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/sessions/"+id+"/click", `{"row":1,"col":3}`).Code)

	snapshot := decode[snapshotBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", ""))
	assert.Equal(t, 4, snapshot.Step)
}

func TestResize(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "").ID
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", "").Code)

	view := decode[viewBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/resize", `{"size":7}`))
	assert.Equal(t, 7, view.Rows)
	assert.Equal(t, 7, view.Cols)
	assert.Nil(t, view.Start)
	assert.Nil(t, view.Goal)
	assert.Equal(t, "normal", view.Cells[1][3])

	for _, body := range []string{`{"size":0}`, `{"size":257}`, `{}`} {
		assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/sessions/"+id+"/resize", body).Code, body)
	}
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/sessions/nope/resize", `{"size":7}`).Code)
}

func TestLoad(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "").ID
	for range 3 {
		require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", "").Code)
	}

	view := decode[viewBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/load", `{"scenario":"wiki"}`))
	assert.Equal(t, 22, view.Rows)
	require.NotNil(t, view.Start)
	assert.Equal(t, gridastar.Coordinate{Row: 19, Col: 2}, *view.Start)
	assert.Equal(t, "idle", view.Status)

	snapshot := decode[snapshotBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", ""))
	assert.Equal(t, 1, snapshot.Step)
	assert.Equal(t, gridastar.Coordinate{Row: 19, Col: 2}, snapshot.Current)

	view = decode[viewBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/load", `{"scenario":"empty","size":5}`))
	assert.Equal(t, 5, view.Cols)

	for _, body := range []string{`{"scenario":"maze"}`, `{}`, `{"scenario":"empty","size":300}`} {
		assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/sessions/"+id+"/load", body).Code, body)
	}
}

func TestStep_MissingEndpoints(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "").ID

	view := decode[viewBody](t, do(t, srv, http.MethodPost, "/sessions/"+id+"/clear", ""))
	assert.Nil(t, view.Start)
	assert.Equal(t, "normal", view.Cells[1][3])

	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, srv, http.MethodPost, "/sessions/"+id+"/solve", "").Code)
}

func TestUnknownAndDeletedSession(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/sessions/nope", "").Code)

	id := createSession(t, srv, "").ID
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/sessions/"+id+"/step", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/sessions/"+id, "").Code)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "").ID
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/sessions/"+id+"/solve", "").Code)

	w := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gridastar_step_total")
	assert.Contains(t, w.Body.String(), `gridastar_search_total{heuristic="diagonal",outcome="succeeded"}`)
}

func TestStream(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/sessions", "application/json", bytes.NewBufferString(`{"scenario":"wiki","weighted":true}`))
	require.NoError(t, err)
	var view viewBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	resp.Body.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/sessions/" + view.ID + "/stream?interval=1ms"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var frames []snapshotBody
	for {
		var frame snapshotBody
		if err := conn.ReadJSON(&frame); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), err.Error())
			break
		}
		frames = append(frames, frame)
	}

	require.Len(t, frames, 39)
	for i, frame := range frames {
		assert.Equal(t, i+1, frame.Step)
	}
	last := frames[len(frames)-1]
	assert.True(t, last.Done)
	assert.True(t, last.Found)
	assert.Len(t, last.Path, 26)
}

func TestStream_BadInterval(t *testing.T) {
	srv := newTestServer(t)
	id := createSession(t, srv, "").ID
	w := do(t, srv, http.MethodGet, "/sessions/"+id+"/stream?interval=soon", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
