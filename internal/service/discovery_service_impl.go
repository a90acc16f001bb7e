package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/clarity/internal/db"
	"github.com/alexanderramin/clarity/internal/domain"
	"github.com/alexanderramin/clarity/internal/intelligence"
	"github.com/alexanderramin/clarity/internal/repository"
	"github.com/google/uuid"
)

type discoveryService struct {
	clusterer intelligence.ClusterService
	clusters  repository.ClusterRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

// NewDiscoveryService wires clustering and cluster storage for the three
// discovery flows. A nil clusterer makes Cluster fail with ErrNoClusterer.
func NewDiscoveryService(
	clusterer intelligence.ClusterService,
	clusters repository.ClusterRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) DiscoveryService {
	return &discoveryService{
		clusterer: clusterer,
		clusters:  clusters,
		uow:       uow,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *discoveryService) Cluster(ctx context.Context, typ domain.ClusterType, items []string, final bool) (out []domain.Cluster, err error) {
	kind := intelligence.KindFor(typ, final)
	fields := map[string]any{"cluster_type": string(typ), "kind": string(kind), "items": len(items)}
	defer observe(ctx, s.observer, "cluster-answers", time.Now(), fields, &err)

	if !domain.ValidClusterTypes[typ] {
		return nil, fmt.Errorf("clustering: unknown cluster type %q", typ)
	}
	if s.clusterer == nil {
		return nil, intelligence.ErrNoClusterer
	}
	out, err = s.clusterer.Cluster(ctx, items, kind)
	if err != nil {
		return nil, fmt.Errorf("clustering %s answers: %w", typ, err)
	}
	fields["clusters"] = len(out)
	return out, nil
}

func (s *discoveryService) SavePreview(ctx context.Context, sessionID string, typ domain.ClusterType, clusters []domain.Cluster) (err error) {
	defer observe(ctx, s.observer, "save-preview-clusters", time.Now(),
		map[string]any{"session_id": sessionID, "cluster_type": string(typ), "clusters": len(clusters)}, &err)

	if sessionID == "" {
		return ErrSessionRequired
	}
	if err := s.clusters.InsertBatch(ctx, clusterRecords(sessionID, typ, domain.ClusterStagePreview, clusters)); err != nil {
		return fmt.Errorf("saving preview clusters: %w", err)
	}
	return nil
}

// SaveFinal stores the final clusters of a flow and completes its session
// row in one transaction. The session row is created if the flow never
// registered one.
func (s *discoveryService) SaveFinal(ctx context.Context, sessionID string, typ domain.ClusterType, clusters []domain.Cluster) (err error) {
	defer observe(ctx, s.observer, "save-final-clusters", time.Now(),
		map[string]any{"session_id": sessionID, "cluster_type": string(typ), "clusters": len(clusters)}, &err)

	if sessionID == "" {
		return ErrSessionRequired
	}
	flowType, ok := flowTypeFor(typ)
	if !ok {
		return fmt.Errorf("saving clusters: unknown cluster type %q", typ)
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sessions := repository.NewSQLiteFlowSessionRepo(tx)
		fs, err := ensureFlowSession(ctx, sessions, sessionID, flowType)
		if err != nil {
			return err
		}
		records := clusterRecords(sessionID, typ, domain.ClusterStageFinal, clusters)
		if err := repository.NewSQLiteClusterRepo(tx).InsertBatch(ctx, records); err != nil {
			return fmt.Errorf("saving final clusters: %w", err)
		}
		if err := sessions.MarkCompleted(ctx, fs.ID, time.Now().UTC()); err != nil {
			return fmt.Errorf("completing %s session: %w", flowType, err)
		}
		return nil
	})
}

// List returns the most recent final clusters of one type, newest batch first.
func (s *discoveryService) List(ctx context.Context, sessionID string, typ domain.ClusterType) ([]domain.Cluster, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	records, err := s.clusters.ListBySessionAndType(ctx, sessionID, typ, domain.ClusterStageFinal)
	if err != nil {
		return nil, err
	}
	return domain.Clusters(records), nil
}

func clusterRecords(sessionID string, typ domain.ClusterType, stage domain.ClusterStage, clusters []domain.Cluster) []*domain.ClusterRecord {
	now := time.Now().UTC()
	out := make([]*domain.ClusterRecord, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, &domain.ClusterRecord{
			ID:        uuid.New().String(),
			SessionID: sessionID,
			Type:      typ,
			Stage:     stage,
			Cluster:   c,
			CreatedAt: now,
		})
	}
	return out
}

func flowTypeFor(t domain.ClusterType) (domain.FlowType, bool) {
	switch t {
	case domain.ClusterProblems:
		return domain.FlowProblems, true
	case domain.ClusterSkills:
		return domain.FlowSkills, true
	case domain.ClusterPersona:
		return domain.FlowPersona, true
	}
	return "", false
}
