package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/unfold/pkg/store"
)

const fakeGoal = `{"title":"Write a book","description":"Pages every morning.","type":"LONG_TERM","milestones":["Outline","Draft","Edit"]}`

func init() {
	color.NoColor = true
}

// execute runs the CLI against dir and returns what it printed.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	jsonOutput = false
	saveReflection = false
	profileName, profilePace, profilePriority = "", "", ""
	profileBlockers = nil

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))

	err := rootCmd.Execute()
	if app != nil {
		app.Close()
		app = nil
	}
	return buf.String(), err
}

// fakeOpenAI answers JSON-mode requests with fakeGoal and everything else
// with a reflection.
func fakeOpenAI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		content := "You are tending your path with care."
		if _, ok := body["response_format"]; ok {
			content = fakeGoal
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupDataDir(t *testing.T, storage string) string {
	t.Helper()
	srv := fakeOpenAI(t)
	dir := t.TempDir()

	t.Setenv("UNFOLD_PROVIDER", "")
	t.Setenv("UNFOLD_STORAGE", "")
	t.Setenv("UNFOLD_TEST_KEY", "k")

	cfg := "oracle:\n" +
		"  provider: openai\n" +
		"  model: test-model\n" +
		"  api_key_env: UNFOLD_TEST_KEY\n" +
		"  base_url: " + srv.URL + "/v1\n" +
		"storage: " + storage + "\n" +
		"log_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0644))
	return dir
}

func TestOnboardAndProfile(t *testing.T) {
	dir := setupDataDir(t, "file")

	out, err := execute(t, dir, "onboard", "--name", "Ada", "--pace", "slow", "--blocker", "time", "--blocker", " ")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Ada.")

	_, err = execute(t, dir, "onboard")
	assert.ErrorContains(t, err, "already onboarded")

	out, err = execute(t, dir, "--json", "profile")
	require.NoError(t, err)
	var p store.Profile
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, store.Profile{Name: "Ada", Pace: store.PaceSlow, Blockers: []string{"time"}, Onboarded: true}, p)

	out, err = execute(t, dir, "profile", "set", "--priority", "writing")
	require.NoError(t, err)
	assert.Contains(t, out, "Focus: writing")
	assert.Contains(t, out, "Slow & Intentional")

	_, err = os.Stat(filepath.Join(dir, LogFileName))
	assert.NoError(t, err, "log file should be created in the data dir")
}

func TestOnboardRejectsUnknownPace(t *testing.T) {
	dir := setupDataDir(t, "file")

	_, err := execute(t, dir, "onboard", "--pace", "sprint")
	assert.ErrorContains(t, err, "invalid pace")

	_, err = execute(t, dir, "profile")
	assert.ErrorContains(t, err, "no profile yet")
}

func TestPlantRequiresProfile(t *testing.T) {
	dir := setupDataDir(t, "file")

	_, err := execute(t, dir, "plant", "write", "a", "book")
	assert.ErrorContains(t, err, "unfold onboard")
}

func TestGoalLifecycle(t *testing.T) {
	for _, storage := range []string{"file", "sqlite"} {
		t.Run(storage, func(t *testing.T) {
			dir := setupDataDir(t, storage)

			_, err := execute(t, dir, "onboard", "--name", "Ada")
			require.NoError(t, err)

			out, err := execute(t, dir, "plant", "write", "a", "book")
			require.NoError(t, err)
			assert.Contains(t, out, "Write a book")
			assert.Contains(t, out, "Outline")

			out, err = execute(t, dir, "list")
			require.NoError(t, err)
			assert.Contains(t, out, "DIRECTIONS")
			assert.NotContains(t, out, "FOCUS POINTS")
			assert.Contains(t, out, "Write a book")

			out, err = execute(t, dir, "toggle", "1", "1")
			require.NoError(t, err)
			assert.Contains(t, out, "Outline · → done")
			assert.Contains(t, out, "is at 33%")

			out, err = execute(t, dir, "--json", "show", "1")
			require.NoError(t, err)
			var g store.Goal
			require.NoError(t, json.Unmarshal([]byte(out), &g))
			assert.Equal(t, 33, g.Progress)
			assert.True(t, g.Milestones[0].Completed)
			assert.Equal(t, store.TypeLongTerm, g.Type)

			out, err = execute(t, dir, "--json", "stats")
			require.NoError(t, err)
			var stats store.Stats
			require.NoError(t, json.Unmarshal([]byte(out), &stats))
			assert.Equal(t, store.Stats{Bloomed: 0, Flowing: 1, Harmony: 33, Total: 1}, stats)

			out, err = execute(t, dir, "status", g.ID[:8], "paused")
			require.NoError(t, err)
			assert.Contains(t, out, "is now paused")

			_, err = execute(t, dir, "status", "1", "dormant")
			assert.ErrorContains(t, err, "invalid status")

			out, err = execute(t, dir, "delete", "1")
			require.NoError(t, err)
			assert.Contains(t, out, "Let go of Write a book")

			out, err = execute(t, dir, "list")
			require.NoError(t, err)
			assert.Contains(t, out, "No goals yet")
		})
	}
}

func TestToggleUntilBloomed(t *testing.T) {
	dir := setupDataDir(t, "file")
	_, err := execute(t, dir, "onboard")
	require.NoError(t, err)
	_, err = execute(t, dir, "plant", "book")
	require.NoError(t, err)

	for _, m := range []string{"1", "2"} {
		_, err = execute(t, dir, "toggle", "1", m)
		require.NoError(t, err)
	}
	out, err := execute(t, dir, "toggle", "1", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "is at 100%")
	assert.Contains(t, out, "It has bloomed.")

	out, err = execute(t, dir, "toggle", "1", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Edit · → open")
	assert.Contains(t, out, "is at 67%")
}

func TestLinks(t *testing.T) {
	dir := setupDataDir(t, "file")

	out, err := execute(t, dir, "links")
	require.NoError(t, err)
	assert.Contains(t, out, "No direction set yet")

	_, err = execute(t, dir, "onboard")
	require.NoError(t, err)
	_, err = execute(t, dir, "plant", "book")
	require.NoError(t, err)

	out, err = execute(t, dir, "links")
	require.NoError(t, err)
	assert.Contains(t, out, "◆ Write a book")
	assert.Contains(t, out, "0 links")

	out, err = execute(t, dir, "--json", "links")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestReflectAndJournal(t *testing.T) {
	dir := setupDataDir(t, "file")

	_, err := execute(t, dir, "onboard")
	require.NoError(t, err)

	_, err = execute(t, dir, "reflect")
	assert.ErrorContains(t, err, "plant an intention first")

	_, err = execute(t, dir, "plant", "book")
	require.NoError(t, err)

	out, err := execute(t, dir, "reflect")
	require.NoError(t, err)
	assert.Contains(t, out, "You are tending your path with care.")
	assert.NotContains(t, out, "Saved to")

	out, err = execute(t, dir, "journal")
	require.NoError(t, err)
	assert.Contains(t, out, "The journal is empty")

	out, err = execute(t, dir, "reflect", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved to")

	out, err = execute(t, dir, "--json", "journal")
	require.NoError(t, err)
	var entries []store.Reflection
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "You are tending your path with care.", entries[0].Content)
	assert.Equal(t, 1, entries[0].GoalCount)
}

func TestUnavailableOracle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UNFOLD_PROVIDER", "anthropic")
	t.Setenv("UNFOLD_STORAGE", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := execute(t, dir, "onboard")
	require.NoError(t, err)

	_, err = execute(t, dir, "plant", "book")
	assert.ErrorContains(t, err, "oracle unavailable")
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY")

	out, err := execute(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No goals yet")
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UNFOLD_PROVIDER", "")
	t.Setenv("UNFOLD_STORAGE", "tape")

	_, err := execute(t, dir, "list")
	assert.ErrorContains(t, err, "invalid storage")
}
