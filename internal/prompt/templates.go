package prompt

// DefaultTemplateName is the registry name of the bundled extraction template.
const DefaultTemplateName = "ner_kg_extraction_with_spec"

// DefaultTemplate seeds registries that have no extraction template yet.
const DefaultTemplate = `You are an expert at extracting a knowledge graph from organization profile pages.

Extract every entity that matches one of the entity types below. An entity type may
list subcategories; tag the entity with the most specific one that applies.

Entity types:
{entity_types}

Then extract every relationship between two extracted entities using only these relation types:
{relations}

Return one triple per line in the form:
(subject_entity_type:subject_name) -[RELATION]-> (object_entity_type:object_name)

Text:
{input}
`
