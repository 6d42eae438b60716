package routes_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dasdy/timetable/web/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postForm(target string, values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return r
}

func TestBuildBoardRenderContext(t *testing.T) {
	handler, boardMock, _ := setupMockServerHandler()
	boardMock.CurrentText = "HI"

	require.NoError(t, handler.Lamps.SetLamp(3, boardMock.Cfg.LampColorOn))

	result := handler.BuildBoardRenderContext()

	assert.Equal(t, 2, result.TotalCols)
	assert.Equal(t, 7, result.TotalRows)
	assert.Len(t, result.Lamps, 14)
	assert.Equal(t, "#ffcc00", result.Lamps[3].Color)
	assert.Equal(t, "#3a3a3a", result.Lamps[4].Color)
	assert.Equal(t, "HI", result.Text)
	assert.Equal(t, components.PageTypeBoard, result.Page)
}

func TestBoardHandle(t *testing.T) {
	handler, _, _ := setupMockServerHandler()
	recorder := httptest.NewRecorder()

	handler.BoardHandle(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `id="lamp-13"`)
}

func TestShowHandle(t *testing.T) {
	t.Run("shows the text", func(t *testing.T) {
		handler, boardMock, _ := setupMockServerHandler()
		recorder := httptest.NewRecorder()

		handler.ShowHandle(recorder, postForm("/show", url.Values{"text": {"HELLO"}}))

		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, []string{"HELLO"}, boardMock.Shown)
	})

	t.Run("reports board errors", func(t *testing.T) {
		handler, boardMock, _ := setupMockServerHandler()
		boardMock.ReturnError = errors.New("lamp burned out")
		recorder := httptest.NewRecorder()

		handler.ShowHandle(recorder, postForm("/show", url.Values{"text": {"HELLO"}}))

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "lamp burned out")
	})
}

func TestMoveHandle(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		values       url.Values
		expectedCode int
		expectedMove *moveCall
	}{
		{
			name:         "move left with defaults",
			target:       "/move-left",
			values:       url.Values{"text": {"A"}},
			expectedCode: http.StatusSeeOther,
			expectedMove: &moveCall{Direction: "left", Text: "A"},
		},
		{
			name:         "move right with circles and interval",
			target:       "/move-right",
			values:       url.Values{"text": {"B"}, "circles": {"3"}, "interval": {"250"}},
			expectedCode: http.StatusSeeOther,
			expectedMove: &moveCall{Direction: "right", Text: "B", Circles: 3, Interval: 250 * time.Millisecond},
		},
		{
			name:         "bad circles",
			target:       "/move-left",
			values:       url.Values{"text": {"A"}, "circles": {"many"}},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "bad interval",
			target:       "/move-right",
			values:       url.Values{"text": {"A"}, "interval": {"1.5"}},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler, boardMock, _ := setupMockServerHandler()
			recorder := httptest.NewRecorder()
			request := postForm(tc.target, tc.values)

			if strings.HasSuffix(tc.target, "left") {
				handler.MoveLeftHandle(recorder, request)
			} else {
				handler.MoveRightHandle(recorder, request)
			}

			assert.Equal(t, tc.expectedCode, recorder.Code)

			if tc.expectedMove == nil {
				assert.Empty(t, boardMock.Moves)

				return
			}

			require.Len(t, boardMock.Moves, 1)
			assert.Equal(t, *tc.expectedMove, boardMock.Moves[0])
		})
	}
}

func TestClearHandle(t *testing.T) {
	handler, boardMock, _ := setupMockServerHandler()
	recorder := httptest.NewRecorder()

	handler.ClearHandle(recorder, httptest.NewRequest(http.MethodPost, "/clear", nil))

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, 1, boardMock.Clears)
}
