// # Usage
//
// Connecting:
//
//	db := database.NewSurrealDB(database.Config{
//	    Host:      "localhost",
//	    Port:      "8000",
//	    User:      "root",
//	    Password:  "root",
//	    Namespace: "places",
//	    Database:  "places",
//	})
//	if err := db.Connect(ctx); err != nil { ... }
//	defer db.Close()
//
// Two documents changed together:
//
//	tx, _ := db.BeginTx(ctx)
//	_ = tx.Execute(ctx, "CREATE type::thing('place', $key) CONTENT $data", vars)
//	_ = tx.Execute(ctx, "UPDATE type::thing('user', $key) SET places += $place", vars2)
//	err := tx.Commit(ctx)
//
// Statements staged in one transaction may reuse variable names; TxBuilder
// renames them per statement before the batch is sent.
package database
