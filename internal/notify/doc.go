// Package notify delivers the "task created" email to the administrator.
//
// Delivery is best-effort. The Dispatcher accepts notifications without
// blocking the caller, hands them to a small worker pool and logs any failure.
// A failed or dropped notification never affects the request that caused it.
//
// Three Notifier implementations are provided: LogNotifier writes the message
// to the structured log, SMTPNotifier speaks SMTP to a relay and SESNotifier
// calls the AWS SES SendEmail API.
package notify
