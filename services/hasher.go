package services

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// hashingResult holds the outcome of a hashing job.
type hashingResult struct {
	Hash  string
	Match bool
	Err   error
}

// hashingJob is either a hash request (Hash empty) or a comparison of
// Password against Hash.
type hashingJob struct {
	Password   string
	Hash       string
	ResultChan chan<- hashingResult
}

// Hasher manages a pool of workers for CPU-intensive bcrypt work, keeping
// it off the goroutines that serve requests.
type Hasher struct {
	jobChan    chan hashingJob
	bcryptCost int
	closeOnce  sync.Once
}

// NewHasher creates and starts a new Hasher service.
func NewHasher(numWorkers int, cost int) *Hasher {
	h := &Hasher{
		jobChan:    make(chan hashingJob),
		bcryptCost: cost,
	}

	for i := 0; i < numWorkers; i++ {
		go h.worker()
	}

	return h
}

func (h *Hasher) worker() {
	for job := range h.jobChan {
		if job.Hash == "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(job.Password), h.bcryptCost)
			job.ResultChan <- hashingResult{Hash: string(hash), Err: err}
			continue
		}

		err := bcrypt.CompareHashAndPassword([]byte(job.Hash), []byte(job.Password))
		switch {
		case err == nil:
			job.ResultChan <- hashingResult{Match: true}
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			job.ResultChan <- hashingResult{}
		default:
			job.ResultChan <- hashingResult{Err: err}
		}
	}
}

// submit hands a job to the pool and waits for its result or for ctx to end.
// The result channel is buffered so a worker never blocks on a caller that
// has gone away.
func (h *Hasher) submit(ctx context.Context, job hashingJob) (hashingResult, error) {
	resultChan := make(chan hashingResult, 1)
	job.ResultChan = resultChan

	select {
	case h.jobChan <- job:
	case <-ctx.Done():
		return hashingResult{}, ctx.Err()
	}

	select {
	case result := <-resultChan:
		return result, result.Err
	case <-ctx.Done():
		return hashingResult{}, ctx.Err()
	}
}

// GenerateHash sends a password to the worker pool and waits for the salted hash.
func (h *Hasher) GenerateHash(ctx context.Context, password string) (string, error) {
	result, err := h.submit(ctx, hashingJob{Password: password})
	if err != nil {
		return "", err
	}
	return result.Hash, nil
}

// Compare reports whether password matches hash. A mismatch is not an error;
// a malformed hash is.
func (h *Hasher) Compare(ctx context.Context, password, hash string) (bool, error) {
	if hash == "" {
		return false, bcrypt.ErrHashTooShort
	}
	result, err := h.submit(ctx, hashingJob{Password: password, Hash: hash})
	if err != nil {
		return false, err
	}
	return result.Match, nil
}

// Close stops the workers. It must not be called while requests are in flight.
func (h *Hasher) Close() {
	h.closeOnce.Do(func() { close(h.jobChan) })
}
