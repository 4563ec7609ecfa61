package sweeper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pagesweep-hq/pagesweep/pkg/pages"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func dep(id string, status pages.Status, created time.Time, aliases ...string) pages.Deployment {
	return pages.Deployment{
		ID:          id,
		Environment: "preview",
		URL:         "https://" + id + ".example.pages.dev",
		CreatedOn:   created,
		Stage:       pages.Stage{Name: "deploy", Status: status},
		Aliases:     aliases,
	}
}

// fakeSource serves projects and deployments from memory in pages.
type fakeSource struct {
	mu sync.Mutex

	pageSize    int
	projects    []pages.Project
	deployments map[string][]pages.Deployment

	projectsErrPage int
	deployErrPage   map[string]int
	deleteErr       map[string]error
	onDelete        func(project, id string)

	deleted     []string
	deleteCtxs  []context.Context
	deployFetch map[string][]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pageSize:      2,
		deployments:   make(map[string][]pages.Deployment),
		deployErrPage: make(map[string]int),
		deleteErr:     make(map[string]error),
		deployFetch:   make(map[string][]int),
	}
}

func (f *fakeSource) addProject(name string, deployments ...pages.Deployment) {
	f.projects = append(f.projects, pages.Project{ID: "id-" + name, Name: name})
	f.deployments[name] = deployments
}

func paginate[T any](items []T, size, page int) pages.Page[T] {
	total := (len(items) + size - 1) / size
	start := (page - 1) * size
	if start >= len(items) {
		return pages.Page[T]{TotalPages: total}
	}
	end := min(start+size, len(items))
	return pages.Page[T]{Items: items[start:end], TotalPages: total}
}

func (f *fakeSource) Projects() *pages.Pager[pages.Project] {
	return pages.NewPager(func(ctx context.Context, page int) (pages.Page[pages.Project], error) {
		if f.projectsErrPage == page {
			return pages.Page[pages.Project]{}, fmt.Errorf("projects unavailable")
		}
		return paginate(f.projects, f.pageSize, page), nil
	})
}

func (f *fakeSource) Deployments(project string) *pages.Pager[pages.Deployment] {
	return pages.NewPager(func(ctx context.Context, page int) (pages.Page[pages.Deployment], error) {
		f.mu.Lock()
		f.deployFetch[project] = append(f.deployFetch[project], page)
		f.mu.Unlock()

		if f.deployErrPage[project] == page {
			return pages.Page[pages.Deployment]{}, fmt.Errorf("deployments unavailable")
		}
		return paginate(f.deployments[project], f.pageSize, page), nil
	})
}

func (f *fakeSource) DeleteDeployment(ctx context.Context, project, id string) error {
	f.mu.Lock()
	f.deleteCtxs = append(f.deleteCtxs, ctx)
	f.mu.Unlock()

	if f.onDelete != nil {
		f.onDelete(project, id)
	}
	if err := f.deleteErr[id]; err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, project+"/"+id)
	return nil
}

// event is one call made to a Recorder.
type event struct {
	kind, project, action, reason string
}

type recordingRecorder struct {
	mu     sync.Mutex
	events []event
	runs   []error
}

func (r *recordingRecorder) add(e event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingRecorder) RecordDecision(project, action, reason string) {
	r.add(event{kind: "decision", project: project, action: action, reason: reason})
}

func (r *recordingRecorder) RecordDeletion(project, result string) {
	r.add(event{kind: "deletion", project: project, action: result})
}

func (r *recordingRecorder) RecordSkip(reason string) {
	r.add(event{kind: "skip", reason: reason})
}

func (r *recordingRecorder) RecordProject(result string) {
	r.add(event{kind: "project", action: result})
}

func (r *recordingRecorder) RecordRun(_ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, err)
}

func (r *recordingRecorder) decisions() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event
	for _, e := range r.events {
		if e.kind == "decision" {
			out = append(out, e)
		}
	}
	return out
}
