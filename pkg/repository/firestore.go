package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/roshan-abady/churnscope/pkg/domain/interfaces"
	"github.com/roshan-abady/churnscope/pkg/domain/model"
	"github.com/roshan-abady/churnscope/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const runsCollection = "analysis_runs"

// Firestore implements Repository with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Probe the collection so invalid projects or credentials fail fast
	_, err = client.Collection(runsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("firestore connection probe returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("firestore run history initialized",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{client: client}, nil
}

// PutRun stores an analysis run
func (f *Firestore) PutRun(ctx context.Context, run *model.AnalysisRun) error {
	if run == nil {
		return goerr.New("run is nil")
	}
	if run.ID == "" {
		return goerr.New("run ID is empty")
	}

	_, err := f.client.Collection(runsCollection).Doc(run.ID.String()).Set(ctx, run)
	if err != nil {
		return goerr.Wrap(err, "failed to save run to firestore", goerr.V("id", run.ID))
	}

	return nil
}

// GetRun retrieves a run by ID
func (f *Firestore) GetRun(ctx context.Context, id types.RunID) (*model.AnalysisRun, error) {
	if id == "" {
		return nil, goerr.New("run ID is empty")
	}

	doc, err := f.client.Collection(runsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrRunNotFound, "no such run", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get run from firestore")
	}

	var run model.AnalysisRun
	if err := doc.DataTo(&run); err != nil {
		return nil, goerr.Wrap(err, "failed to decode run")
	}

	return &run, nil
}

// ListRuns lists runs ordered newest first. Sorting happens in memory to
// avoid requiring a composite index.
func (f *Firestore) ListRuns(ctx context.Context, limit int) ([]*model.AnalysisRun, error) {
	iter := f.client.Collection(runsCollection).Documents(ctx)
	defer iter.Stop()

	var runs []*model.AnalysisRun
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate runs")
		}

		var run model.AnalysisRun
		if err := doc.DataTo(&run); err != nil {
			return nil, goerr.Wrap(err, "failed to decode run")
		}
		runs = append(runs, &run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	return runs, nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if err := f.client.Close(); err != nil {
		return goerr.Wrap(err, "failed to close firestore client")
	}
	return nil
}
