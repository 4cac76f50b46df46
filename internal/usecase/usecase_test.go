package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/domain/segments"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/ports"
	"github.com/S4M1D4R3/YouTubeLiveClipper/internal/types"
)

type fakeTranscripts struct {
	items map[string][]types.CaptionItem
	errs  map[string]error
}

func (f *fakeTranscripts) Fetch(_ context.Context, _ string, lang string) ([]types.CaptionItem, error) {
	if err, ok := f.errs[lang]; ok {
		return nil, err
	}
	if items, ok := f.items[lang]; ok {
		return items, nil
	}
	return nil, ports.ErrNoTranscript
}

type fakeCaptions struct {
	tracks  types.CaptionTracks
	listErr error
	items   map[string][]types.CaptionItem
}

func (f *fakeCaptions) ListTracks(context.Context, string) (types.CaptionTracks, error) {
	return f.tracks, f.listErr
}

func (f *fakeCaptions) FetchTrack(_ context.Context, track types.CaptionTrack) ([]types.CaptionItem, error) {
	items, ok := f.items[track.URL]
	if !ok {
		return nil, errors.New("track fetch failed")
	}
	return items, nil
}

type fakeMeta struct {
	title string
	err   error
}

func (f *fakeMeta) Title(context.Context, string) (string, error) { return f.title, f.err }

type fakeDownloader struct {
	err   error
	calls int
}

func (f *fakeDownloader) Download(_ context.Context, _ string, outPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outPath, []byte("video"), 0o644)
}

type fakeCutter struct {
	failOn map[string]bool // keyed by output basename
	cuts   []string
}

func (f *fakeCutter) Cut(_ context.Context, _ string, _, _ int, outPath string) error {
	base := filepath.Base(outPath)
	if f.failOn[base] {
		return errors.New("cut failed")
	}
	f.cuts = append(f.cuts, base)
	return os.WriteFile(outPath, []byte("clip"), 0o644)
}

func newTestUsecase(t *testing.T, d Deps) (Usecase, string) {
	t.Helper()
	dir := t.TempDir()
	if d.Transcripts == nil {
		d.Transcripts = &fakeTranscripts{}
	}
	if d.Captions == nil {
		d.Captions = &fakeCaptions{}
	}
	if d.Meta == nil {
		d.Meta = &fakeMeta{title: "Stream"}
	}
	if d.Downloader == nil {
		d.Downloader = &fakeDownloader{}
	}
	if d.Cutter == nil {
		d.Cutter = &fakeCutter{}
	}
	d.Logf = t.Logf
	return New(d, Options{DownloadsDir: dir}), dir
}

const testURL = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func segmentJSON(t *testing.T, segs ...map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(segs)
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func goodSegment(start, end string) map[string]any {
	return map[string]any{
		"start": start, "end": end,
		"impact": 7, "uniqueness": 6, "timeliness": 5, "entertainment": 8,
		"reason": "a perfectly adequate explanation",
		"title":  "highlight",
	}
}

func TestAcquireTranscript(t *testing.T) {
	t.Parallel()

	u, dir := newTestUsecase(t, Deps{
		Transcripts: &fakeTranscripts{items: map[string][]types.CaptionItem{
			"ja": {{Start: 5, Text: "hello"}, {Start: 10, Text: "world"}},
		}},
		Meta: &fakeMeta{title: "My Stream"},
	})

	res, err := u.AcquireTranscript(context.Background(), testURL)
	if err != nil {
		t.Fatal(err)
	}
	if res.Title != "My Stream" {
		t.Errorf("title = %q", res.Title)
	}
	want := filepath.Join(dir, "My Stream_subtitles.txt")
	if res.SubtitlePath != want {
		t.Errorf("subtitle path = %q, want %q", res.SubtitlePath, want)
	}
	raw, err := os.ReadFile(res.SubtitlePath)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(raw); got != "[00:00:05] hello\n[00:00:10] world" {
		t.Errorf("transcript = %q", got)
	}
}

func TestAcquireTranscriptSanitizesTitle(t *testing.T) {
	t.Parallel()

	u, dir := newTestUsecase(t, Deps{
		Transcripts: &fakeTranscripts{items: map[string][]types.CaptionItem{
			"ja": {{Start: 0, Text: "hi"}},
		}},
		Meta: &fakeMeta{title: `A/B: "live"?`},
	})

	res, err := u.AcquireTranscript(context.Background(), testURL)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, `A_B_ _live__`+"_subtitles.txt"); res.SubtitlePath != want {
		t.Errorf("subtitle path = %q, want %q", res.SubtitlePath, want)
	}
}

func TestAcquireTranscriptTitleFallback(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t, Deps{
		Transcripts: &fakeTranscripts{items: map[string][]types.CaptionItem{
			"ja": {{Start: 0, Text: "hi"}},
		}},
		Meta: &fakeMeta{err: errors.New("yt-dlp missing")},
	})

	res, err := u.AcquireTranscript(context.Background(), testURL)
	if err != nil {
		t.Fatal(err)
	}
	if res.Title != "video_dQw4w9WgXcQ" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestAcquireTranscriptCaptionFallback(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t, Deps{
		Transcripts: &fakeTranscripts{errs: map[string]error{
			"ja": ports.ErrNoTranscript, "ja-JP": ports.ErrNoTranscript, "en": ports.ErrNoTranscript,
		}},
		Captions: &fakeCaptions{
			tracks: types.CaptionTracks{
				Automatic: map[string]types.CaptionTrack{
					"ja": {Ext: "json3", URL: "https://example.test/ja"},
				},
			},
			items: map[string][]types.CaptionItem{
				"https://example.test/ja": {{Start: 1, Text: "fallback line"}},
			},
		},
	})

	res, err := u.AcquireTranscript(context.Background(), testURL)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Lines) != 1 || res.Lines[0].Text != "fallback line" {
		t.Errorf("lines = %+v", res.Lines)
	}
}

func TestAcquireTranscriptAllSourcesFail(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t, Deps{
		Transcripts: &fakeTranscripts{},
		Captions:    &fakeCaptions{listErr: errors.New("listing blew up")},
	})

	_, err := u.AcquireTranscript(context.Background(), testURL)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"failed to fetch subtitles", "ja:", "en:", "listing blew up"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestAcquireTranscriptDisabledStopsLanguageLoop(t *testing.T) {
	t.Parallel()

	ft := &fakeTranscripts{errs: map[string]error{"ja": ports.ErrTranscriptsDisabled}}
	u, _ := newTestUsecase(t, Deps{
		Transcripts: ft,
		Captions:    &fakeCaptions{listErr: errors.New("no tracks")},
	})

	_, err := u.AcquireTranscript(context.Background(), testURL)
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "ja-JP") {
		t.Errorf("loop should have stopped after disabled: %v", err)
	}
}

func writeSubtitles(t *testing.T, dir, title, content string) string {
	t.Helper()
	path := filepath.Join(dir, title+"_subtitles.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractClips(t *testing.T) {
	t.Parallel()

	cutter := &fakeCutter{}
	u, dir := newTestUsecase(t, Deps{Cutter: cutter})
	subs := writeSubtitles(t, dir, "Stream", "[00:00:05] hello\n[00:00:10] world")

	reply := segmentJSON(t, goodSegment("00:00:00", "00:00:15"))
	results, err := u.ExtractClips(context.Background(), reply, subs, testURL)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	r := results[0]
	if r.StartTime != "00:00:00" || r.EndTime != "00:00:15" {
		t.Errorf("times = %q..%q", r.StartTime, r.EndTime)
	}
	if r.VideoTitle != "Stream" {
		t.Errorf("video title = %q", r.VideoTitle)
	}
	wantBase := "clip_dQw4w9WgXcQ_00_00_00_00_00_15"
	if filepath.Base(r.VideoFile) != wantBase+".mp4" {
		t.Errorf("video file = %q", r.VideoFile)
	}
	excerpt, err := os.ReadFile(r.SubtitleFile)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(excerpt); got != "[00:00:05] hello\n[00:00:10] world" {
		t.Errorf("excerpt = %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "temp_dQw4w9WgXcQ.mp4")); !os.IsNotExist(err) {
		t.Errorf("shared download not cleaned up: %v", err)
	}
}

func TestExtractClipsIdempotentFilenames(t *testing.T) {
	t.Parallel()

	u, dir := newTestUsecase(t, Deps{})
	subs := writeSubtitles(t, dir, "Stream", "[00:00:05] hello")
	reply := segmentJSON(t, goodSegment("00:00:00", "00:00:15"))

	first, err := u.ExtractClips(context.Background(), reply, subs, testURL)
	if err != nil {
		t.Fatal(err)
	}
	second, err := u.ExtractClips(context.Background(), reply, subs, testURL)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].VideoFile != second[0].VideoFile || first[0].SubtitleFile != second[0].SubtitleFile {
		t.Errorf("runs produced different paths: %+v vs %+v", first[0], second[0])
	}
}

func TestExtractClipsSkipsFailedCut(t *testing.T) {
	t.Parallel()

	cutter := &fakeCutter{failOn: map[string]bool{
		"clip_dQw4w9WgXcQ_00_00_00_00_00_15.mp4": true,
	}}
	u, dir := newTestUsecase(t, Deps{Cutter: cutter})
	subs := writeSubtitles(t, dir, "Stream", "[00:00:05] hello\n[00:00:20] again")

	reply := segmentJSON(t,
		goodSegment("00:00:00", "00:00:15"),
		goodSegment("00:00:15", "00:00:30"),
	)
	results, err := u.ExtractClips(context.Background(), reply, subs, testURL)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want the surviving segment only", len(results))
	}
	if results[0].StartTime != "00:00:15" {
		t.Errorf("surviving segment starts at %q", results[0].StartTime)
	}
}

func TestExtractClipsAllCutsFail(t *testing.T) {
	t.Parallel()

	cutter := &fakeCutter{failOn: map[string]bool{
		"clip_dQw4w9WgXcQ_00_00_00_00_00_15.mp4": true,
	}}
	u, dir := newTestUsecase(t, Deps{Cutter: cutter})
	subs := writeSubtitles(t, dir, "Stream", "[00:00:05] hello")

	reply := segmentJSON(t, goodSegment("00:00:00", "00:00:15"))
	_, err := u.ExtractClips(context.Background(), reply, subs, testURL)
	if !errors.Is(err, segments.ErrNoValidSegments) {
		t.Fatalf("err = %v, want ErrNoValidSegments", err)
	}
}

func TestExtractClipsDownloadFailureAborts(t *testing.T) {
	t.Parallel()

	u, dir := newTestUsecase(t, Deps{
		Downloader: &fakeDownloader{err: errors.New("network down")},
	})
	subs := writeSubtitles(t, dir, "Stream", "[00:00:05] hello")

	reply := segmentJSON(t, goodSegment("00:00:00", "00:00:15"))
	_, err := u.ExtractClips(context.Background(), reply, subs, testURL)
	if err == nil || !strings.Contains(err.Error(), "download video") {
		t.Fatalf("err = %v", err)
	}
	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "clip_") {
			t.Errorf("unexpected clip artifact %s", e.Name())
		}
	}
}

func TestExtractClipsReusesExistingDownload(t *testing.T) {
	t.Parallel()

	dl := &fakeDownloader{}
	u, dir := newTestUsecase(t, Deps{Downloader: dl})
	subs := writeSubtitles(t, dir, "Stream", "[00:00:05] hello")
	shared := filepath.Join(dir, "temp_dQw4w9WgXcQ.mp4")
	if err := os.WriteFile(shared, []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	reply := segmentJSON(t, goodSegment("00:00:00", "00:00:15"))
	if _, err := u.ExtractClips(context.Background(), reply, subs, testURL); err != nil {
		t.Fatal(err)
	}
	if dl.calls != 0 {
		t.Errorf("download called %d times for an existing file", dl.calls)
	}
	if _, err := os.Stat(shared); !os.IsNotExist(err) {
		t.Errorf("shared download not cleaned up: %v", err)
	}
}

func TestExtractClipsRejectsBadReply(t *testing.T) {
	t.Parallel()

	for name, reply := range map[string]string{
		"not json":    "{not json",
		"empty array": "[]",
	} {
		reply := reply
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			u, dir := newTestUsecase(t, Deps{})
			subs := writeSubtitles(t, dir, "Stream", "[00:00:05] hello")

			_, err := u.ExtractClips(context.Background(), reply, subs, testURL)
			if err == nil {
				t.Fatal("expected error")
			}
			entries, readErr := os.ReadDir(dir)
			if readErr != nil {
				t.Fatal(readErr)
			}
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), "clip_") || strings.HasPrefix(e.Name(), "temp_") {
					t.Errorf("unexpected artifact %s", e.Name())
				}
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t, Deps{})
	lines := []types.TimedLine{{Seconds: 5, Text: "hello"}}

	p := u.BuildPrompt(lines, "My Stream")
	for _, want := range []string{"My Stream", "[00:00:05] hello"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if p != u.BuildPrompt(lines, "My Stream") {
		t.Error("prompt is not deterministic")
	}
}

func TestBuildPromptCustomTemplate(t *testing.T) {
	t.Parallel()

	u, _ := newTestUsecase(t, Deps{})
	u.opt.PromptTemplate = "video %s\n---\n%s\n---"

	got := u.BuildPrompt([]types.TimedLine{{Seconds: 0, Text: "hi"}}, "T")
	want := fmt.Sprintf("video %s\n---\n%s\n---", "T", "[00:00:00] hi")
	if got != want {
		t.Errorf("prompt = %q, want %q", got, want)
	}
}

func TestProgressReports(t *testing.T) {
	t.Parallel()

	type report struct {
		task    string
		percent int
	}
	var reports []report
	progress := progressFunc(func(task string, percent int) {
		reports = append(reports, report{task, percent})
	})

	u, dir := newTestUsecase(t, Deps{})
	u.d.Progress = progress
	subs := writeSubtitles(t, dir, "Stream", "[00:00:05] hello")

	reply := segmentJSON(t,
		goodSegment("00:00:00", "00:00:15"),
		goodSegment("00:00:15", "00:00:30"),
	)
	if _, err := u.ExtractClips(context.Background(), reply, subs, testURL); err != nil {
		t.Fatal(err)
	}
	want := []report{
		{taskVideo, 0}, {taskVideo, 40}, {taskVideo, 65}, {taskVideo, 90}, {taskVideo, 100},
	}
	if len(reports) != len(want) {
		t.Fatalf("reports = %+v", reports)
	}
	for i := range want {
		if reports[i] != want[i] {
			t.Errorf("report %d = %+v, want %+v", i, reports[i], want[i])
		}
	}
}

type progressFunc func(task string, percent int)

func (f progressFunc) Report(task string, percent int) { f(task, percent) }
