package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"github.com/linkscope/backend/pkg/graph"
	"github.com/linkscope/backend/pkg/leaselock"
	"github.com/linkscope/backend/pkg/logger"
	pgstore "github.com/linkscope/backend/pkg/store/pgx"
)

// ProcessAnalyzeMessage builds the project's graph and stores it. A lease
// lock keyed by project keeps concurrent workers from building the same
// project twice; a busy lock is an error so the message lands in the retry
// queue and runs again once the other build finishes.
func ProcessAnalyzeMessage(
	ctx context.Context,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msgBody string,
) error {
	var data AnalyzeGraphMsg
	if err := json.Unmarshal([]byte(msgBody), &data); err != nil {
		return fmt.Errorf("failed to unmarshal analyze message: %w", err)
	}
	if data.ProjectID == 0 {
		return fmt.Errorf("analyze message missing project id")
	}

	logger.Info("[Queue] Building graph", "project_id", data.ProjectID, "correlation_id", data.CorrelationID)

	locks := leaselock.New(conn)
	lockKey := fmt.Sprintf("graph-build-%d", data.ProjectID)

	return locks.WithLease(ctx, lockKey, leaselock.Options{TTL: 10 * time.Minute}, func(ctx context.Context) error {
		st := pgstore.New(conn)
		builder := graph.NewBuilder(graph.NewBuilderParams{Store: st})

		g, err := builder.BuildGraph(ctx, graph.BuildGraphParams{
			ProjectID:       data.ProjectID,
			DocumentIDs:     data.DocumentIDs,
			EntityTypes:     data.EntityTypes,
			MinCoOccurrence: data.MinCoOccurrence,
		})
		if err != nil {
			return fmt.Errorf("failed to build graph: %w", err)
		}

		if err := st.SaveGraph(ctx, g); err != nil {
			return err
		}

		built := GraphBuiltMsg{
			ProjectID:     data.ProjectID,
			GraphID:       g.ID,
			CorrelationID: data.CorrelationID,
			NodeCount:     len(g.Nodes),
			EdgeCount:     len(g.Edges),
		}
		msgBytes, err := json.Marshal(built)
		if err != nil {
			return err
		}
		topic := fmt.Sprintf("graph.%d.built", data.ProjectID)
		if err := PublishTopic(ch, topic, msgBytes); err != nil {
			logger.Error("[Queue] Failed to publish graph built event", "project_id", data.ProjectID, "err", err)
		}

		logger.Info("[Queue] Graph built", "project_id", data.ProjectID, "nodes", built.NodeCount, "edges", built.EdgeCount)
		return nil
	})
}

// ProcessInvalidateMessage drops the project's stored graph.
func ProcessInvalidateMessage(
	ctx context.Context,
	_ *amqp091.Channel,
	conn *pgxpool.Pool,
	msgBody string,
) error {
	var data InvalidateGraphMsg
	if err := json.Unmarshal([]byte(msgBody), &data); err != nil {
		return fmt.Errorf("failed to unmarshal invalidate message: %w", err)
	}
	if data.ProjectID == 0 {
		return fmt.Errorf("invalidate message missing project id")
	}

	st := pgstore.New(conn)
	if err := st.InvalidateGraph(ctx, data.ProjectID); err != nil {
		return err
	}

	logger.Info("[Queue] Invalidated graph", "project_id", data.ProjectID)
	return nil
}
