// Package bootstrap seeds RBAC data from a YAML document.
//
// A document lists modules with their actions, roles with the permissions
// they grant, groups with their roles, and users with their groups.
// Everything is referenced by name:
//
//	modules:
//	  - name: Reports
//	    actions: [read, create]
//	roles:
//	  - name: Analyst
//	    permissions:
//	      - {module: Reports, actions: [read]}
//	groups:
//	  - name: Analysts
//	    roles: [Analyst]
//	users:
//	  - username: alice
//	    password: s3cret
//	    groups: [Analysts]
//
// Applying is idempotent. Entities that already exist are reused and
// relationships are added as unions, so nothing is ever removed.
package bootstrap
