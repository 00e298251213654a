// Package tenants manages the tenant lifecycle: provisioning new agencies
// with their owner account and default settings, admin CRUD, soft deletion,
// and the hostname validation endpoint used at the edge. Writes that change
// a tenant's domains or status synchronously invalidate the shared
// validation cache.
package tenants
