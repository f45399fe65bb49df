// Package lib groups client integrations that do not belong to a single
// layer: background jobs (asynq), email delivery (Resend), presigned object
// URLs (MinIO) and the chat service proxy.
package lib
