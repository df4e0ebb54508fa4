package schemas

// RecommendationOutput is the schema for the recommendation pipeline's
// model output.
const RecommendationOutput = `{
  "type": "object",
  "required": ["personalizedSummary", "recommendedCareers", "skillDevelopmentPlan", "roadmap90Days"],
  "properties": {
    "personalizedSummary": {"type": "string"},
    "recommendedCareers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "description", "whyFit", "ikigaiAlignment"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "whyFit": {"type": "string"},
          "ikigaiAlignment": {
            "type": "object",
            "required": ["love", "goodAt", "worldNeeds", "paidFor"],
            "properties": {
              "love": {"type": "string"},
              "goodAt": {"type": "string"},
              "worldNeeds": {"type": "string"},
              "paidFor": {"type": "string"}
            }
          }
        }
      }
    },
    "skillDevelopmentPlan": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["skill", "type"],
        "properties": {
          "skill": {"type": "string"},
          "type": {"type": "string", "enum": ["technical", "soft"]}
        }
      }
    },
    "roadmap90Days": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["phase", "tasks"],
        "properties": {
          "phase": {"type": "string"},
          "tasks": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// JobSearchOutput is the schema for the job-search pipeline's final result,
// applied after the deterministic repair pass.
const JobSearchOutput = `{
  "type": "object",
  "required": ["passionRoles", "strengthRoles", "growthRoles"],
  "properties": {
    "passionRoles": {"$ref": "#/definitions/jobList"},
    "strengthRoles": {"$ref": "#/definitions/jobList"},
    "growthRoles": {"$ref": "#/definitions/jobList"}
  },
  "definitions": {
    "jobList": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "company", "description", "url"],
        "properties": {
          "title": {"type": "string"},
          "company": {"type": "string"},
          "location": {"type": "string"},
          "description": {"type": "string"},
          "url": {"type": "string", "format": "uri"},
          "personalizedFit": {"type": "string"},
          "isSteppingStone": {"type": "boolean"}
        }
      }
    }
  }
}`

// RoadmapPlan is the schema for the roadmap pipeline's model output.
const RoadmapPlan = `{
  "type": "object",
  "required": ["roadmap90Days"],
  "properties": {
    "roadmap90Days": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["phase", "tasks"],
        "properties": {
          "phase": {"type": "string"},
          "tasks": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`
