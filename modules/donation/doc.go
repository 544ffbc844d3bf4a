// Package donation provides the mountable HTTP surface for the donation
// widget: checkout session creation, public revenue stats, and the billing
// webhook endpoint. Mount it under a path of your choosing with chi.
package donation
