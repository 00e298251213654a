// Package plans defines the subscription tiers and the resource ceilings
// each tier grants a tenant. The built-in catalog covers the standard tiers;
// deployments can override it from a YAML file.
package plans
