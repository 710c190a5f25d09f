// Package schema validates JSON documents against published schemas.
//
// Two validators are provided. JSONSchema compiles JSON Schema files (Draft
// 2020-12 unless the file says otherwise) read from an fs.FS; OpenAPI checks
// documents against the component schemas of an OpenAPI 3 document. The
// default Users schemas are embedded:
//
//	v := schema.NewJSONSchema(nil)
//	res, err := v.Validate(body, schema.DefaultJSONSchemaRef)
//	if err != nil {
//	    return err
//	}
//	return res.Err(schema.DefaultJSONSchemaRef)
package schema
