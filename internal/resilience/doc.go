// Package resilience provides fault tolerance patterns for calls to upstream services.
//
// The package supports:
//   - Circuit breakers for the upstream search API
//
// The fetch path has no breaker. Each fetch targets a caller-chosen host and
// a shared failure ratio would couple unrelated hosts.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.SearchAPIConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return callSearchAPI()
//	})
package resilience
