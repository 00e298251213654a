// Package auth handles accounts and credential verification. Login is
// hostname-scoped: the domain a request arrives on picks the account
// namespace (super admin hostname, tenant domain, or the legacy main-domain
// fallback), so identical emails on different tenants stay isolated.
package auth
