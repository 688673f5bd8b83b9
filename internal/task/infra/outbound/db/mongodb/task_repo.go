package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	// --- Importaciones del dominio y compartidas ---
	sharedDomain "github.com/davicafu/relaypage/internal/shared/domain"
	"github.com/davicafu/relaypage/internal/shared/infra/platform/db/mongocriteria"
	sharedQuery "github.com/davicafu/relaypage/internal/shared/infra/platform/query"
	taskDomain "github.com/davicafu/relaypage/internal/task/domain"
)

// fields traduce los campos neutrales a claves del documento.
var fields = mongocriteria.Fields{
	taskDomain.FieldID:         "_id",
	taskDomain.FieldAssigneeID: "assigneeId",
	taskDomain.FieldStatus:     "status",
	taskDomain.FieldTitle:      "title",
}

// TaskRepoMongoDB implementa la interfaz TaskRepository para MongoDB.
type TaskRepoMongoDB struct {
	tasksColl *mongo.Collection
}

var _ taskDomain.TaskRepository = (*TaskRepoMongoDB)(nil)

// NewTaskRepoMongoDB es el constructor del repositorio.
func NewTaskRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*TaskRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	return &TaskRepoMongoDB{tasksColl: client.Database(dbName).Collection("tasks")}, nil
}

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoTask struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	AssigneeID  string    `bson:"assigneeId"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt"`
}

func toMongoTask(t *taskDomain.Task) mongoTask {
	return mongoTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssigneeID:  t.AssigneeID,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (mt mongoTask) toDomain() *taskDomain.Task {
	return &taskDomain.Task{
		ID:          mt.ID,
		Title:       mt.Title,
		Description: mt.Description,
		AssigneeID:  mt.AssigneeID,
		Status:      taskDomain.TaskStatus(mt.Status),
		CreatedAt:   mt.CreatedAt,
		UpdatedAt:   mt.UpdatedAt,
	}
}

// --- CRUD ---

func (r *TaskRepoMongoDB) Create(ctx context.Context, t *taskDomain.Task) error {
	if _, err := r.tasksColl.InsertOne(ctx, toMongoTask(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return taskDomain.ErrTaskAlreadyExists
		}
		return err
	}
	return nil
}

func (r *TaskRepoMongoDB) Update(ctx context.Context, t *taskDomain.Task) error {
	mt := toMongoTask(t)
	res, err := r.tasksColl.UpdateOne(ctx, bson.M{"_id": mt.ID}, bson.M{"$set": mt})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return taskDomain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepoMongoDB) GetByID(ctx context.Context, id string) (*taskDomain.Task, error) {
	var mt mongoTask
	err := r.tasksColl.FindOne(ctx, bson.M{"_id": id}).Decode(&mt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, taskDomain.ErrTaskNotFound
		}
		return nil, err
	}
	return mt.toDomain(), nil
}

func (r *TaskRepoMongoDB) ExistsForAssignee(ctx context.Context, assigneeID, id string) (bool, error) {
	n, err := r.tasksColl.CountDocuments(ctx, bson.M{"_id": id, "assigneeId": assigneeID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// --- Listados ---

func (r *TaskRepoMongoDB) ListByCriteria(ctx context.Context, criteria sharedDomain.Criteria, sort sharedQuery.Sort, limit int) ([]*taskDomain.Task, error) {
	filter, err := mongocriteria.Filter(criteria, fields)
	if err != nil {
		return nil, err
	}
	order, err := mongocriteria.Sort(sort, fields)
	if err != nil {
		return nil, err
	}

	cursor, err := r.tasksColl.Find(ctx, filter, options.Find().SetSort(order).SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []*taskDomain.Task{}
	for cursor.Next(ctx) {
		var mt mongoTask
		if err := cursor.Decode(&mt); err != nil {
			return nil, err
		}
		tasks = append(tasks, mt.toDomain())
	}
	return tasks, cursor.Err()
}

func (r *TaskRepoMongoDB) CountByCriteria(ctx context.Context, criteria sharedDomain.Criteria) (int, error) {
	filter, err := mongocriteria.Filter(criteria, fields)
	if err != nil {
		return 0, err
	}
	n, err := r.tasksColl.CountDocuments(ctx, filter)
	return int(n), err
}

// EnsureIndexes crea el índice del listado por responsable.
func (r *TaskRepoMongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := r.tasksColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "assigneeId", Value: 1}, {Key: "_id", Value: -1}},
	})
	return err
}
