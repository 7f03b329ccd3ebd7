// Package redisq provides a minimal Redis-backed FIFO task queue for Go.
// Ordinary functions register against a named queue and gain a dispatch
// wrapper that enqueues invocations instead of running them inline; one
// consumer loop per queue pops and executes tasks in arrival order.
//
// RedisQ is a library, not a service. Configure a store, register task
// functions through an engine, and start the workers:
//
//	st, err := redisstore.Open("")
//	if err != nil { ... }
//	e, err := engine.New(st)
//	if err != nil { ... }
//
//	sendEmail := e.Register("email", SendEmail)
//
//	if err := e.Start(ctx); err != nil { ... }
//
//	// Enqueues one task; SendEmail runs later on the "email" consumer.
//	_ = sendEmail(ctx, []any{"x@test.com", "hi", "body"}, nil)
//
// FIFO ordering holds within a single queue only. Queues are drained
// independently and concurrently, and there is no result channel back to
// the producer: a dispatch call reports only whether the push succeeded.
package redisq
