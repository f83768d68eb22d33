// Package api handles incoming HTTP requests for the task resource:
// request decoding and validation, mapping service errors to status codes,
// and response formatting. It adapts HTTP concerns onto service.TaskService.
package api
