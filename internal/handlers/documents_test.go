package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"fieldservice-ai/internal/chunker"
	embedding_mocks "fieldservice-ai/internal/embedding/mocks"
	"fieldservice-ai/internal/indexer"
	"fieldservice-ai/internal/search"
	"fieldservice-ai/internal/storage"
	storage_mocks "fieldservice-ai/internal/storage/mocks"
	vectorstore_mocks "fieldservice-ai/internal/vectorstore/mocks"
)

// stubEngine lets handler tests script search behavior without gomock.
type stubEngine struct {
	fn func(ctx context.Context, req search.Request) (search.Response, error)
}

func (s *stubEngine) Search(ctx context.Context, req search.Request) (search.Response, error) {
	return s.fn(ctx, req)
}

type documentsFixture struct {
	handler     *DocumentsHandler
	fileRepo    *storage_mocks.MockFileStore
	chunkRepo   *storage_mocks.MockChunkStore
	embedder    *embedding_mocks.MockEmbedder
	vectorStore *vectorstore_mocks.MockVectorStore
}

func newDocumentsFixture(t *testing.T, engine search.Engine) documentsFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := documentsFixture{
		fileRepo:    storage_mocks.NewMockFileStore(ctrl),
		chunkRepo:   storage_mocks.NewMockChunkStore(ctrl),
		embedder:    embedding_mocks.NewMockEmbedder(ctrl),
		vectorStore: vectorstore_mocks.NewMockVectorStore(ctrl),
	}
	pipeline := indexer.NewPipeline(f.fileRepo, f.chunkRepo, f.embedder, f.vectorStore,
		"test-collection", chunker.DefaultOptions())
	f.handler = NewDocumentsHandler(pipeline, engine, f.fileRepo)
	return f
}

func processRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/documents/process", bytes.NewBufferString(body))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

func TestProcess_MalformedJSON(t *testing.T) {
	f := newDocumentsFixture(t, nil)

	rec := httptest.NewRecorder()
	f.handler.Process(rec, processRequest("{not json"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Process() status = %d, want 500", rec.Code)
	}
	if got := decodeError(t, rec); got != "Internal server error" {
		t.Errorf("Process() error = %q, want %q", got, "Internal server error")
	}
}

func TestProcess_MissingFields(t *testing.T) {
	f := newDocumentsFixture(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing both", body: `{}`},
		{name: "missing text", body: `{"fileId":"file-1"}`},
		{name: "missing file id", body: `{"textContent":"some text"}`},
		{name: "whitespace only", body: `{"fileId":"  ","textContent":"\n\t"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.handler.Process(rec, processRequest(tt.body))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Process() status = %d, want 400", rec.Code)
			}
			if got := decodeError(t, rec); got != "File ID and text content are required" {
				t.Errorf("Process() error = %q, want %q", got, "File ID and text content are required")
			}
		})
	}
}

func TestProcess_FileNotFound(t *testing.T) {
	f := newDocumentsFixture(t, nil)

	f.fileRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)

	rec := httptest.NewRecorder()
	f.handler.Process(rec, processRequest(`{"fileId":"missing","textContent":"text"}`))

	if rec.Code != http.StatusNotFound {
		t.Errorf("Process() status = %d, want 404", rec.Code)
	}
	if got := decodeError(t, rec); got != "File not found" {
		t.Errorf("Process() error = %q, want %q", got, "File not found")
	}
}

func TestProcess_Success(t *testing.T) {
	f := newDocumentsFixture(t, nil)

	f.fileRepo.EXPECT().GetByID(gomock.Any(), "file-1").
		Return(&storage.FileRecord{ID: "file-1", Filename: "doc.txt"}, nil)
	f.embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			vecs := make([][]float32, len(texts))
			for i := range texts {
				vecs[i] = []float32{1, 2, 3}
			}
			return vecs, nil
		})
	f.chunkRepo.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)
	f.vectorStore.EXPECT().Upsert(gomock.Any(), "test-collection", gomock.Any()).Return(nil)
	f.fileRepo.EXPECT().MarkProcessed(gomock.Any(), "file-1", true).Return(nil)

	rec := httptest.NewRecorder()
	f.handler.Process(rec, processRequest(`{"fileId":"file-1","textContent":"The pump seal was replaced."}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("Process() status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp ProcessResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Message != "Document processed successfully" {
		t.Errorf("Process() response = %+v", resp)
	}
}

func TestProcess_ProcessedFileIsReindexed(t *testing.T) {
	f := newDocumentsFixture(t, nil)

	f.fileRepo.EXPECT().GetByID(gomock.Any(), "file-1").
		Return(&storage.FileRecord{ID: "file-1", Filename: "doc.txt", IsProcessed: true}, nil)
	// Reprocessing path: the old chunk set goes first
	f.chunkRepo.EXPECT().ListIDsByFile(gomock.Any(), "file-1").Return([]string{"old-1"}, nil)
	f.vectorStore.EXPECT().Delete(gomock.Any(), "test-collection", []string{"old-1"}).Return(nil)
	f.chunkRepo.EXPECT().DeleteByFile(gomock.Any(), "file-1").Return(nil)
	f.embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			vecs := make([][]float32, len(texts))
			for i := range texts {
				vecs[i] = []float32{1, 2, 3}
			}
			return vecs, nil
		})
	f.chunkRepo.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)
	f.vectorStore.EXPECT().Upsert(gomock.Any(), "test-collection", gomock.Any()).Return(nil)
	f.fileRepo.EXPECT().MarkProcessed(gomock.Any(), "file-1", true).Return(nil)

	rec := httptest.NewRecorder()
	f.handler.Process(rec, processRequest(`{"fileId":"file-1","textContent":"Updated content."}`))

	if rec.Code != http.StatusOK {
		t.Errorf("Process() status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestProcess_PipelineFailure(t *testing.T) {
	f := newDocumentsFixture(t, nil)

	f.fileRepo.EXPECT().GetByID(gomock.Any(), "file-1").
		Return(&storage.FileRecord{ID: "file-1"}, nil)
	f.embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("provider down"))

	rec := httptest.NewRecorder()
	f.handler.Process(rec, processRequest(`{"fileId":"file-1","textContent":"some text"}`))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Process() status = %d, want 500", rec.Code)
	}
	if got := decodeError(t, rec); got != "Failed to process document" {
		t.Errorf("Process() error = %q, want %q", got, "Failed to process document")
	}
}

func TestProcess_ConcurrentRequestRejected(t *testing.T) {
	f := newDocumentsFixture(t, nil)

	started := make(chan struct{})
	release := make(chan struct{})

	f.fileRepo.EXPECT().GetByID(gomock.Any(), "file-1").
		Return(&storage.FileRecord{ID: "file-1"}, nil).Times(2)
	f.embedder.EXPECT().
		EmbedTexts(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, texts []string) ([][]float32, error) {
			close(started)
			<-release
			vecs := make([][]float32, len(texts))
			for i := range texts {
				vecs[i] = []float32{1}
			}
			return vecs, nil
		})
	f.chunkRepo.EXPECT().InsertBatch(gomock.Any(), gomock.Any()).Return(nil)
	f.vectorStore.EXPECT().Upsert(gomock.Any(), "test-collection", gomock.Any()).Return(nil)
	f.fileRepo.EXPECT().MarkProcessed(gomock.Any(), "file-1", true).Return(nil)

	firstDone := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		f.handler.Process(rec, processRequest(`{"fileId":"file-1","textContent":"some text"}`))
		firstDone <- rec
	}()

	<-started
	rec := httptest.NewRecorder()
	f.handler.Process(rec, processRequest(`{"fileId":"file-1","textContent":"some text"}`))
	close(release)

	if rec.Code != http.StatusConflict {
		t.Errorf("Process() concurrent status = %d, want 409", rec.Code)
	}
	if got := decodeError(t, rec); got != "Processing already in progress for this file" {
		t.Errorf("Process() concurrent error = %q", got)
	}

	if first := <-firstDone; first.Code != http.StatusOK {
		t.Errorf("Process() first request status = %d, want 200", first.Code)
	}
}

func TestSearchPost_QueryRequired(t *testing.T) {
	f := newDocumentsFixture(t, &stubEngine{fn: func(context.Context, search.Request) (search.Response, error) {
		t.Fatal("engine must not be called for an empty query")
		return search.Response{}, nil
	}})

	for _, body := range []string{`{}`, `{"query":"   "}`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/documents/search", bytes.NewBufferString(body))
		f.handler.SearchPost(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("SearchPost(%s) status = %d, want 400", body, rec.Code)
		}
		if got := decodeError(t, rec); got != "Query is required" {
			t.Errorf("SearchPost(%s) error = %q, want %q", body, got, "Query is required")
		}
	}
}

func TestSearchPost_Success(t *testing.T) {
	var captured search.Request
	engine := &stubEngine{fn: func(_ context.Context, req search.Request) (search.Response, error) {
		captured = req
		return search.Response{
			Results: []search.Result{{ChunkID: "chunk-a", FileID: "file-1", Content: "hit", Similarity: 0.9}},
			Query:   req.Query,
		}, nil
	}}
	f := newDocumentsFixture(t, engine)

	body := `{"query":"pump seal","options":{"matchThreshold":0.85,"matchCount":3,"fileIds":["file-1"]}}`
	req := httptest.NewRequest(http.MethodPost, "/documents/search", bytes.NewBufferString(body))
	req.Header.Set("X-User-ID", "tech-7")
	rec := httptest.NewRecorder()
	f.handler.SearchPost(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("SearchPost() status = %d", rec.Code)
	}
	if captured.UserID != "tech-7" {
		t.Errorf("SearchPost() user = %q, want header value", captured.UserID)
	}
	if captured.Options.MatchThreshold != 0.85 || captured.Options.MatchCount != 3 {
		t.Errorf("SearchPost() options = %+v", captured.Options)
	}

	var resp SearchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Count != 1 || len(resp.Results) != 1 {
		t.Errorf("SearchPost() response = %+v", resp)
	}
}

func TestSearchPost_NilResultsSerializedAsEmptyArray(t *testing.T) {
	engine := &stubEngine{fn: func(_ context.Context, req search.Request) (search.Response, error) {
		return search.Response{Query: req.Query}, nil
	}}
	f := newDocumentsFixture(t, engine)

	req := httptest.NewRequest(http.MethodPost, "/documents/search", bytes.NewBufferString(`{"query":"nothing"}`))
	rec := httptest.NewRecorder()
	f.handler.SearchPost(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("SearchPost() status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"results":[]`) {
		t.Errorf("SearchPost() body = %s, want empty array not null", rec.Body.String())
	}
}

func TestSearchGet_ParamParsing(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		wantThreshold float32
		wantCount     int
		wantFileIDs   []string
	}{
		{
			name:          "all params",
			url:           "/documents/search?q=pump&threshold=0.9&count=5&fileIds=a,b",
			wantThreshold: 0.9,
			wantCount:     5,
			wantFileIDs:   []string{"a", "b"},
		},
		{
			name: "non-numeric values fall back to defaults",
			url:  "/documents/search?q=pump&threshold=abc&count=xyz",
		},
		{
			name:        "empty fileIds segments dropped",
			url:         "/documents/search?q=pump&fileIds=a,,b,",
			wantFileIDs: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured search.Request
			engine := &stubEngine{fn: func(_ context.Context, req search.Request) (search.Response, error) {
				captured = req
				return search.Response{Query: req.Query}, nil
			}}
			f := newDocumentsFixture(t, engine)

			rec := httptest.NewRecorder()
			f.handler.SearchGet(rec, httptest.NewRequest(http.MethodGet, tt.url, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("SearchGet() status = %d", rec.Code)
			}
			if captured.Options.MatchThreshold != tt.wantThreshold {
				t.Errorf("threshold = %v, want %v", captured.Options.MatchThreshold, tt.wantThreshold)
			}
			if captured.Options.MatchCount != tt.wantCount {
				t.Errorf("count = %d, want %d", captured.Options.MatchCount, tt.wantCount)
			}
			if len(captured.Options.FileIDs) != len(tt.wantFileIDs) {
				t.Errorf("fileIDs = %v, want %v", captured.Options.FileIDs, tt.wantFileIDs)
			}
		})
	}
}

func TestSearchGet_MissingQuery(t *testing.T) {
	f := newDocumentsFixture(t, &stubEngine{fn: func(context.Context, search.Request) (search.Response, error) {
		t.Fatal("engine must not be called without a query")
		return search.Response{}, nil
	}})

	rec := httptest.NewRecorder()
	f.handler.SearchGet(rec, httptest.NewRequest(http.MethodGet, "/documents/search", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("SearchGet() status = %d, want 400", rec.Code)
	}
}

func TestUserIDFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := userIDFromRequest(req); got != "anonymous" {
		t.Errorf("userIDFromRequest() = %q, want anonymous default", got)
	}

	req.Header.Set("X-User-ID", "tech-9")
	if got := userIDFromRequest(req); got != "tech-9" {
		t.Errorf("userIDFromRequest() = %q, want tech-9", got)
	}
}
