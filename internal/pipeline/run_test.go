package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfcraft/internal/collect"
	"tfcraft/internal/fields"
	"tfcraft/internal/generate"
	"tfcraft/internal/llm"
	"tfcraft/internal/resolver"
	"tfcraft/internal/validate"
)

type fakeStore struct {
	resources []string
	chunks    []string
	required  []string
	queryErr  error
	listErr   error
}

func (f *fakeStore) ListResources(_ context.Context) ([]string, error) {
	return f.resources, f.listErr
}

func (f *fakeStore) Query(_ context.Context, _ string) ([]string, []string, error) {
	return f.chunks, f.required, f.queryErr
}

type fixedStage struct{ pick string }

func (s fixedStage) Name() string { return "fixed" }

func (s fixedStage) Resolve(_ context.Context, _ string, known []string) (string, bool) {
	for _, name := range known {
		if name == s.pick {
			return name, true
		}
	}
	return "", false
}

type fakeExtractor struct{ optional []string }

func (f fakeExtractor) OptionalFields(_ context.Context, _ string, _ []string) []string {
	return f.optional
}

type passAdvisor struct{}

func (passAdvisor) Advise(_ context.Context, field, _ string) fields.Metadata {
	return fields.Metadata{Name: field}
}

type passChecker struct{}

func (passChecker) Validate(_ context.Context, _, value, _ string, _ fields.Metadata) (bool, string) {
	if value == "" {
		return false, "empty"
	}
	return true, ""
}

type scriptAsker struct {
	answers []string
}

func (s *scriptAsker) Ask(_ string) (string, error) {
	if len(s.answers) == 0 {
		return "", errors.New("script exhausted")
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

type stubClient struct{ reply string }

func (s stubClient) Complete(_ context.Context, _ []llm.Message, _ float64) (string, error) {
	return s.reply, nil
}

func newPipeline(t *testing.T, store *fakeStore, asker *scriptAsker, modelReply string, out *bytes.Buffer) *Pipeline {
	t.Helper()
	caller := llm.NewCaller(stubClient{reply: modelReply}, llm.RetryPolicy{})
	return &Pipeline{
		Store:         store,
		Resolver:      resolver.New(fixedStage{pick: "cloudstack_instance"}),
		Extractor:     fakeExtractor{},
		Collector:     collect.New(passAdvisor{}, passChecker{}, asker, out),
		Generator:     generate.NewGenerator(caller, 8),
		Engine:        validate.NewEngine(true, nil),
		Asker:         asker,
		Out:           out,
		OutputDir:     filepath.Join(t.TempDir(), "generated"),
		ContextChunks: 8,
	}
}

const modelBlock = `resource "cloudstack_instance" "web" {
  name = "web-1"
  zone = "zone-1"
}`

func TestRun_EndToEnd(t *testing.T) {
	store := &fakeStore{
		resources: []string{"cloudstack_instance", "cloudstack_network"},
		chunks:    []string{"docs chunk one", "docs chunk two"},
		required:  []string{"name", "zone"},
	}
	// name, zone, then decline the optional fields question.
	asker := &scriptAsker{answers: []string{"web-1", "zone-1", "n"}}
	var out bytes.Buffer
	p := newPipeline(t, store, asker, modelBlock, &out)
	p.Extractor = fakeExtractor{optional: []string{"keypair"}}

	require.NoError(t, p.Run(context.Background(), "spin up a vm"))

	assert.Contains(t, out.String(), "[Resolved resource] cloudstack_instance")
	assert.Contains(t, out.String(), "All validations passed")

	path := filepath.Join(p.OutputDir, "terraform_cloudstack_instance_web-1.tf")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, modelBlock, string(data))
}

func TestRun_UnresolvedIsASoftStop(t *testing.T) {
	store := &fakeStore{resources: []string{"cloudstack_network"}}
	var out bytes.Buffer
	p := newPipeline(t, store, &scriptAsker{}, modelBlock, &out)

	require.NoError(t, p.Run(context.Background(), "something unknown"))
	assert.Contains(t, out.String(), "Could not automatically map your query")
	assert.Contains(t, out.String(), "cloudstack_network")
	assert.NoDirExists(t, p.OutputDir)
}

func TestRun_EmptyIndexIsAnError(t *testing.T) {
	store := &fakeStore{}
	p := newPipeline(t, store, &scriptAsker{}, modelBlock, &bytes.Buffer{})

	err := p.Run(context.Background(), "anything")
	assert.ErrorIs(t, err, resolver.ErrNoResources)
}

func TestRun_SentinelStopsBeforeSaving(t *testing.T) {
	store := &fakeStore{
		resources: []string{"cloudstack_instance"},
		chunks:    []string{"docs"},
		required:  []string{"zone"},
	}
	asker := &scriptAsker{answers: []string{"zone-1"}}
	var out bytes.Buffer
	p := newPipeline(t, store, asker, "MISSING_REQUIRED: zone", &out)

	require.NoError(t, p.Run(context.Background(), "instance"))
	assert.Contains(t, out.String(), "missing required field")
	assert.NoDirExists(t, p.OutputDir)
}

func TestRun_ValidationFailureAbort(t *testing.T) {
	store := &fakeStore{
		resources: []string{"cloudstack_instance"},
		chunks:    []string{"docs"},
		required:  []string{"zone_id"},
	}
	// Fill zone_id, then abort at the failure dialogue.
	asker := &scriptAsker{answers: []string{"z-1", "a"}}
	var out bytes.Buffer
	p := newPipeline(t, store, asker, modelBlock, &out)

	require.NoError(t, p.Run(context.Background(), "instance"))
	assert.Contains(t, out.String(), "Overall Status: INVALID")
	assert.Contains(t, out.String(), "Aborting")
	assert.NoDirExists(t, p.OutputDir)
}

func TestRun_ValidationFailureSaveAnyway(t *testing.T) {
	store := &fakeStore{
		resources: []string{"cloudstack_instance"},
		chunks:    []string{"docs"},
		required:  []string{"zone_id"},
	}
	asker := &scriptAsker{answers: []string{"z-1", "s"}}
	var out bytes.Buffer
	p := newPipeline(t, store, asker, modelBlock, &out)

	require.NoError(t, p.Run(context.Background(), "instance"))
	assert.Contains(t, out.String(), "review before applying")

	path := filepath.Join(p.OutputDir, "terraform_cloudstack_instance_resource.tf")
	assert.FileExists(t, path)
}

func TestRun_RetrievalFailure(t *testing.T) {
	store := &fakeStore{
		resources: []string{"cloudstack_instance"},
		queryErr:  errors.New("milvus down"),
	}
	p := newPipeline(t, store, &scriptAsker{}, modelBlock, &bytes.Buffer{})

	err := p.Run(context.Background(), "instance")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval failed")
}
