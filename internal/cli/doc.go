// Package cli implements coinvuectl, the operator tool for account
// administration that is not exposed over HTTP.
//
// Commands:
//   - create-admin [username] [email]: create an administrator; missing
//     values and the password are prompted for
//   - promote <username>: grant the admin role to an existing user
//   - delete-user <username>: remove a user together with its sessions and
//     favorites, after an interactive confirmation
//
// The entry point is App.Run, which executes one command and returns.
package cli
