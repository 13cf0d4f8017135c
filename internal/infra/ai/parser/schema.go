package parser

// shapeSchema checks container types only. Leaf enums are not enforced here;
// the normalizer applies defaults instead of rejecting the whole answer.
const shapeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "text": {"type": ["string", "null"]},
    "textList": {"type": ["array", "string", "null"]},
    "scalar": {"type": ["string", "number", "boolean", "null"]}
  },
  "properties": {
    "executiveSummary": {
      "type": ["object", "null"],
      "properties": {
        "title": {"$ref": "#/definitions/text"},
        "overview": {"$ref": "#/definitions/text"},
        "keyPoints": {"$ref": "#/definitions/textList"},
        "actionRequired": {"type": ["boolean", "null"]}
      }
    },
    "analysis": {
      "type": ["object", "null"],
      "properties": {
        "introduction": {"$ref": "#/definitions/text"},
        "conclusion": {"$ref": "#/definitions/text"},
        "sections": {
          "type": ["array", "null"],
          "items": {
            "type": "object",
            "properties": {
              "title": {"$ref": "#/definitions/text"},
              "content": {"$ref": "#/definitions/text"},
              "insights": {"$ref": "#/definitions/textList"}
            }
          }
        }
      }
    },
    "metrics": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "title": {"$ref": "#/definitions/text"},
          "value": {"$ref": "#/definitions/scalar"},
          "description": {"$ref": "#/definitions/text"},
          "category": {"$ref": "#/definitions/text"}
        }
      }
    },
    "insights": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "title": {"$ref": "#/definitions/text"},
          "description": {"$ref": "#/definitions/text"},
          "impact": {"$ref": "#/definitions/scalar"},
          "actionItems": {"$ref": "#/definitions/textList"}
        }
      }
    },
    "charts": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "type": {"$ref": "#/definitions/text"},
          "title": {"$ref": "#/definitions/text"},
          "data": {"type": ["array", "null"], "items": {"type": "object"}},
          "xKey": {"$ref": "#/definitions/text"},
          "yKey": {"$ref": "#/definitions/text"}
        }
      }
    },
    "recommendations": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "title": {"$ref": "#/definitions/text"},
          "description": {"$ref": "#/definitions/text"},
          "priority": {"$ref": "#/definitions/scalar"}
        }
      }
    },
    "riskAssessment": {
      "type": ["object", "null"],
      "properties": {
        "risks": {"type": ["array", "null"], "items": {"type": "object"}}
      }
    },
    "metadata": {
      "type": ["object", "null"],
      "properties": {
        "sources": {"$ref": "#/definitions/textList"}
      }
    }
  }
}`
