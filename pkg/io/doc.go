// Package io provides JSON and YAML import and export for schemas.
//
// # Overview
//
// A schema document lists entities with their ordered attributes, plus the
// relationships between them:
//
//	{
//	  "name": "shop",
//	  "entities": [
//	    {
//	      "name": "Account",
//	      "table": "accounts",
//	      "attributes": [
//	        {"name": "id", "type": "integer", "primary_key": true},
//	        {"name": "email", "type": "string", "nullable": true}
//	      ]
//	    },
//	    {"name": "Order", "attributes": [{"name": "account_id"}]}
//	  ],
//	  "relationships": [
//	    {"from": "Order", "to": "Account", "label": "account_id"}
//	  ]
//	}
//
// The same keys are used in YAML. [ImportFile] picks the decoder from the
// file extension (.yml/.yaml for YAML, anything else JSON). Every import is
// validated with [erd.Schema.Validate].
package io
