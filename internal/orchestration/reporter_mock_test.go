package orchestration_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/agbru/cassels/internal/config"
	"github.com/agbru/cassels/internal/orchestration"
	"github.com/agbru/cassels/internal/orchestration/mocks"
	"github.com/agbru/cassels/internal/search"
)

func TestExecutePlan_ReporterContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockProgressReporter(ctrl)

	var out bytes.Buffer
	var updates int
	reporter.EXPECT().
		DisplayProgress(gomock.Any(), gomock.Any(), 2, &out).
		Times(1).
		Do(func(wg *sync.WaitGroup, ch <-chan orchestration.ProgressUpdate, _ int, _ io.Writer) {
			defer wg.Done()
			for range ch {
				updates++
			}
		})

	plan := config.Plan{Runs: []config.PlanRun{{Level: 7, MaxLen: 3}, {Level: 4, MaxLen: 3}}}
	summaries, err := orchestration.ExecutePlan(context.Background(), search.New(search.WithWorkers(2)), plan, io.Discard, io.Discard, reporter, &out)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	if updates == 0 {
		t.Error("reporter received no updates")
	}
}
