// # Isolation
//
// Each test gets its own namespace, removed again by Close:
//
//	func TestA(t *testing.T) {
//	    tdb := testdb.New(t, repository.EnsureSchema) // namespace: test_<nanos>_1
//	    defer tdb.Close()
//	}
//
// # Configuration
//
// TEST_DB_HOST enables the tests. TEST_DB_PORT, TEST_DB_USER and
// TEST_DB_PASSWORD default to 8000, root and root.
package testdb
