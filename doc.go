/*
	Project: Expertiza deadlines - https://expertiza.ncsu.edu
	Target: the worker behind assignment due dates (reminders, topic and review cleanup, plagiarism checks)
*/
package deadlines

/*
Layout:
	core/deadline      - what a deadline task does (Dispatch)
	services/queue     - asynq task codec, handler and server
	services/email     - console | sendgrid
	services/plagiarism - console | simicheck
	storage/database   - postgres (sqlx) | in-memory
	apps/worker        - queue consumer + health server
	apps/admin         - migrate | enqueue | dispatch

TODO: periodic sweep enqueuing due deadlines from the due_dates table (asynq.Scheduler), so the
	Rails app no longer has to schedule each task itself.
*/
