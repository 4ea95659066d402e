package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lesson-cli/internal/locate"
	"lesson-cli/internal/model"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type lessonEnvelope struct {
	Data      model.Lesson   `json:"data"`
	Selection string         `json:"selection"`
	Meta      map[string]any `json:"meta"`
}

// testEnv isolates config.json and the store for one test.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("LESSON_CONFIG_DIR", t.TempDir())
	t.Setenv("LESSON_ID", "")
	return t.TempDir()
}

func mustRun(t *testing.T, dir string, args ...string) []byte {
	t.Helper()
	full := append([]string{"--dir", dir}, args...)
	stdout, stderr, err := runCLI(t, full)
	if err != nil {
		t.Fatalf("command failed: lesson %v\nerr: %v\nstderr:\n%s\nstdout:\n%s", full, err, string(stderr), string(stdout))
	}
	return stdout
}

func mustLesson(t *testing.T, dir string, args ...string) lessonEnvelope {
	t.Helper()
	out := mustRun(t, dir, args...)
	var env lessonEnvelope
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("unmarshal envelope: %v\nstdout:\n%s", err, string(out))
	}
	return env
}

func cellOf(t *testing.T, tr model.Tree, id string) []string {
	t.Helper()
	loc, ok := locate.FindLocation(tr, id)
	if !ok {
		t.Fatalf("node %s not in tree", id)
	}
	c, _, ok := locate.FindCell(tr, loc.CellID)
	if !ok {
		t.Fatalf("cell %s not in tree", loc.CellID)
	}
	ids := make([]string, 0, len(c.Resources))
	for _, r := range c.Resources {
		ids = append(ids, r.ID())
	}
	return ids
}

func TestEditingFlow(t *testing.T) {
	dir := testEnv(t)

	created := mustLesson(t, dir, "new", "Fractions")
	if created.Data.Title != "Fractions" || created.Data.ID == "" {
		t.Fatalf("unexpected lesson: %+v", created.Data)
	}
	if len(created.Data.Tree) != 1 || !created.Data.Tree[0].EmptyState {
		t.Fatalf("expected one empty-state row, got %+v", created.Data.Tree)
	}

	ins := mustLesson(t, dir, "insert", "text", "--title", "Intro")
	textID := ins.Selection
	if model.KindOfID(textID) != "block" {
		t.Fatalf("expected a block id selected, got %q", textID)
	}
	if b, ok := locate.FindBlock(ins.Data.Tree, textID); !ok || b.Title != "Intro" {
		t.Fatalf("expected titled text block, got %+v", b)
	}

	dropped := mustLesson(t, dir, "drop", "palette:quiz", "--canvas")
	quizID := dropped.Selection
	if len(dropped.Data.Tree) != 2 {
		t.Fatalf("expected canvas drop to add a row, got %d rows", len(dropped.Data.Tree))
	}
	if got := cellOf(t, dropped.Data.Tree, quizID); len(got) != 1 {
		t.Fatalf("expected quiz alone in its cell, got %v", got)
	}

	moved := mustLesson(t, dir, "move", textID, "--after", quizID)
	if got := cellOf(t, moved.Data.Tree, textID); strings.Join(got, ",") != quizID+","+textID {
		t.Fatalf("expected [quiz text], got %v", got)
	}
	if !moved.Data.Tree[0].EmptyState {
		t.Fatalf("expected the empty-state row to survive cleanup")
	}

	var found struct {
		Data nodeView `json:"data"`
	}
	if err := json.Unmarshal(mustRun(t, dir, "find", textID), &found); err != nil {
		t.Fatalf("unmarshal find: %v", err)
	}
	if found.Data.Kind != "block" || found.Data.Parent == nil {
		t.Fatalf("unexpected find result: %+v", found.Data)
	}

	md := string(mustRun(t, dir, "export"))
	if !strings.Contains(md, "# Fractions") || !strings.Contains(md, "**Intro**") {
		t.Fatalf("unexpected markdown:\n%s", md)
	}

	deleted := mustLesson(t, dir, "delete", quizID)
	if locate.Contains(deleted.Data.Tree, quizID) {
		t.Fatalf("expected quiz deleted")
	}

	var evs struct {
		Data []model.Event `json:"data"`
	}
	if err := json.Unmarshal(mustRun(t, dir, "events"), &evs); err != nil {
		t.Fatalf("unmarshal events: %v", err)
	}
	want := []string{"node.delete", "node.move", "drag.drop", "block.insert", "lesson.create"}
	if len(evs.Data) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), evs.Data)
	}
	for i, typ := range want {
		if evs.Data[i].Type != typ {
			t.Fatalf("event %d: expected %s, got %s", i, typ, evs.Data[i].Type)
		}
	}
}

func TestDropWithStaleTargetChangesNothing(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, dir, "new", "Stale")
	ins := mustLesson(t, dir, "insert", "text")

	env := mustLesson(t, dir, "drop", ins.Selection, "--over", "blk-gone")
	if changed, _ := env.Meta["changed"].(bool); changed {
		t.Fatalf("expected no change, got meta %+v", env.Meta)
	}

	var evs struct {
		Data []model.Event `json:"data"`
	}
	if err := json.Unmarshal(mustRun(t, dir, "events"), &evs); err != nil {
		t.Fatalf("unmarshal events: %v", err)
	}
	for _, ev := range evs.Data {
		if ev.Type == "drag.drop" {
			t.Fatalf("a no-op drop must not be recorded")
		}
	}
}

func TestDropHoverReordersWithinCell(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, dir, "new", "Order")
	a := mustLesson(t, dir, "insert", "text").Selection
	b := mustLesson(t, dir, "insert", "header", "--select", a).Selection
	c := mustLesson(t, dir, "insert", "image", "--select", b).Selection

	env := mustLesson(t, dir, "drop", a, "--hover", b+","+c, "--over", c)
	if got := cellOf(t, env.Data.Tree, a); strings.Join(got, ",") != strings.Join([]string{b, c, a}, ",") {
		t.Fatalf("expected [b c a], got %v", got)
	}
}

func TestReorderAndLayout(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, dir, "new", "Layout")
	a := mustLesson(t, dir, "insert", "text").Selection
	layout := mustLesson(t, dir, "layout", "3", "--select", a)
	conID := layout.Selection
	loc, ok := locate.FindResourceLocation(layout.Data.Tree, conID)
	if !ok {
		t.Fatalf("layout not found")
	}
	b := mustLesson(t, dir, "insert", "quiz", "--select", conID).Selection

	env := mustLesson(t, dir, "reorder", loc.CellID, "0", "1")
	if got := cellOf(t, env.Data.Tree, a); strings.Join(got, ",") != strings.Join([]string{b, conID, a}, ",") {
		t.Fatalf("expected blocks swapped around the pinned layout, got %v", got)
	}
}

func TestNotFoundErrors(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, dir, "new", "Errors")

	_, stderr, err := runCLI(t, []string{"--dir", dir, "find", "blk-missing"})
	var nf notFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected notFoundError, got %v", err)
	}
	if !strings.Contains(string(stderr), "node not found: blk-missing") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}

	_, _, err = runCLI(t, []string{"--dir", dir, "use", "nope"})
	if !errors.As(err, &nf) || nf.kind != "lesson" {
		t.Fatalf("expected lesson not found, got %v", err)
	}

	_, _, err = runCLI(t, []string{"--dir", dir, "move", "blk-missing", "--last"})
	if !errors.As(err, &nf) {
		t.Fatalf("expected notFoundError for move, got %v", err)
	}

	_, _, err = runCLI(t, []string{"--dir", dir, "insert", "video"})
	if err == nil {
		t.Fatalf("expected unknown block type to fail")
	}
}

func TestMoveNeedsExactlyOneDestination(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, dir, "new", "Dest")
	a := mustLesson(t, dir, "insert", "text").Selection

	if _, _, err := runCLI(t, []string{"--dir", dir, "move", a}); err == nil {
		t.Fatalf("expected missing destination error")
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "move", a, "--last", "--canvas"}); err == nil {
		t.Fatalf("expected conflicting destination error")
	}
}

func TestListUseAndRm(t *testing.T) {
	dir := testEnv(t)
	first := mustLesson(t, dir, "new", "First").Data.ID
	second := mustLesson(t, dir, "new", "Second").Data.ID

	var list struct {
		Data []map[string]any `json:"data"`
		Meta map[string]any   `json:"meta"`
	}
	if err := json.Unmarshal(mustRun(t, dir, "list"), &list); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if len(list.Data) != 2 || list.Meta["current"] != second {
		t.Fatalf("unexpected list: %+v", list)
	}

	mustRun(t, dir, "use", first)
	if got := mustLesson(t, dir, "show").Data.ID; got != first {
		t.Fatalf("expected show to use the current lesson, got %s", got)
	}

	mustRun(t, dir, "rm", first)
	if _, _, err := runCLI(t, []string{"--dir", dir, "show"}); err == nil {
		t.Fatalf("expected show to fail once the current lesson is removed")
	}
}

func TestTreeFormat(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, dir, "new", "Outline")
	id := mustLesson(t, dir, "insert", "text", "--title", "Hello").Selection

	out := string(mustRun(t, dir, "--format", "tree", "show"))
	for _, want := range []string{"Outline", "(empty state)", "text " + id + ` "Hello"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestExportToFile(t *testing.T) {
	dir := testEnv(t)
	mustRun(t, dir, "new", "Saved")
	mustRun(t, dir, "insert", "header", "--payload", `{"text":"Welcome","level":2}`)

	path := filepath.Join(t.TempDir(), "out", "lesson.md")
	mustRun(t, dir, "export", "--out", path)
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), "## Welcome") {
		t.Fatalf("unexpected export:\n%s", b)
	}
}

func TestLogFileReceivesSaves(t *testing.T) {
	dir := testEnv(t)
	logPath := filepath.Join(t.TempDir(), "lesson.log")
	mustRun(t, dir, "--log-file", logPath, "new", "Logged")
	mustRun(t, dir, "--log-file", logPath, "insert", "text")

	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"event":"block.insert"`) {
		t.Fatalf("expected a structured save log line, got:\n%s", b)
	}
}
