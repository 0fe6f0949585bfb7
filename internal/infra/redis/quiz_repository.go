package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"timed-quiz-service/internal/domain"
)

// QuizLoader fetches quiz content from a backing store (file, Postgres, static map).
type QuizLoader interface {
	LoadQuiz(ctx context.Context, quizID string) (domain.QuizSet, error)
}

// QuizRepository caches whole quiz documents in Redis and falls back to a
// loader on cache miss. Quizzes are stored as JSON under quiz:{quizID}:set.
type QuizRepository struct {
	client *redis.Client
	loader QuizLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewQuizRepository(client *redis.Client, loader QuizLoader, ttl time.Duration) *QuizRepository {
	return &QuizRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuizRepository) GetQuiz(ctx context.Context, quizID string) (domain.QuizSet, error) {
	if quiz, ok := r.cached(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := r.cached(ctx, quizID); ok {
			return quiz, nil
		}

		quiz, err := r.loader.LoadQuiz(ctx, quizID)
		if err != nil {
			return domain.QuizSet{}, err
		}

		data, err := json.Marshal(quiz)
		if err != nil {
			return domain.QuizSet{}, errors.Wrap(err, "marshal quiz for cache")
		}
		if err := r.client.Set(ctx, r.key(quizID), data, r.ttlWithJitter()).Err(); err != nil {
			glog.Warningf("cache quiz %s: %v", quizID, err)
		}
		return quiz, nil
	})
	if err != nil {
		return domain.QuizSet{}, err
	}
	return result.(domain.QuizSet), nil
}

// Invalidate drops the cached copy of a quiz, e.g. after it was re-seeded.
func (r *QuizRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, r.key(quizID)).Err()
}

func (r *QuizRepository) cached(ctx context.Context, quizID string) (domain.QuizSet, bool) {
	data, err := r.client.Get(ctx, r.key(quizID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			glog.Warningf("read cached quiz %s: %v", quizID, err)
		}
		return domain.QuizSet{}, false
	}
	var quiz domain.QuizSet
	if err := json.Unmarshal(data, &quiz); err != nil {
		glog.Warningf("discarding corrupt cached quiz %s: %v", quizID, err)
		return domain.QuizSet{}, false
	}
	if err := quiz.Validate(); err != nil {
		glog.Warningf("discarding invalid cached quiz %s: %v", quizID, err)
		return domain.QuizSet{}, false
	}
	return quiz, true
}

func (r *QuizRepository) key(quizID string) string {
	return "quiz:" + quizID + ":set"
}

func (r *QuizRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
