// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects, the task store
// (defined in internal/store), the response cache and the notification
// dispatcher.
//
// Key components:
//
// 1. Service Interfaces:
//   - Define the operations available to the delivery mechanisms (the HTTP API)
//
// 2. Cache Policy:
//   - Reads are served from the cache when possible and populate it on a miss
//   - Every successful write clears the whole cache once the store has been updated
//   - Failed lookups are never cached, and a not-found write leaves the cache alone
//
// 3. Dependency Management:
//   - Services receive dependencies through constructor injection
//
// 4. Error Handling:
//   - Store not-found errors become ErrTaskNotFound
//   - Everything else is wrapped in TaskServiceError with the failing operation
package service
