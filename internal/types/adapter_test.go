package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdaptLegacyPayloadCanonicalKeys(t *testing.T) {
	payload := map[string]interface{}{
		"contact_information": map[string]interface{}{
			"name":  "Jane Doe",
			"email": "jane@example.com",
		},
		"professional_summary": "Experienced engineer.",
		"skills": map[string]interface{}{
			"technical": []interface{}{"Go", "SQL"},
			"soft":      []interface{}{"Communication"},
			"other":     []interface{}{},
		},
		"work_experience": []interface{}{
			map[string]interface{}{
				"title":   "Engineer",
				"company": "Acme",
				"dates":   "2020-2023",
				"points":  []interface{}{"Built services"},
			},
		},
	}

	cv := AdaptLegacyPayload(payload)
	require.NotNil(t, cv)
	assert.Equal(t, "Jane Doe", cv.ContactInformation.Name)
	assert.Equal(t, "jane@example.com", cv.ContactInformation.Email)
	assert.Equal(t, "Experienced engineer.", cv.ProfessionalSummary)
	assert.Equal(t, []string{"Go", "SQL"}, cv.Skills.Technical)
	require.Len(t, cv.WorkExperience, 1)
	assert.Equal(t, "Acme", cv.WorkExperience[0].Company)
	assert.Equal(t, []string{"Built services"}, cv.WorkExperience[0].Points)
}

func TestAdaptLegacyPayloadVariantKeys(t *testing.T) {
	// 历史负载使用的变体键名
	payload := map[string]interface{}{
		"contact_info": map[string]interface{}{
			"full_name":    "John Roe",
			"phone_number": "5551234567",
			"linkedin_url": "https://linkedin.com/in/johnroe",
		},
		"summary":          "Backend developer.",
		"technical_skills": "Python, Docker; Kafka",
		"work_history": []interface{}{
			map[string]interface{}{
				"role":             "Developer",
				"employer":         "Widgets Ltd",
				"duration":         "2018-2020",
				"responsibilities": []interface{}{"Maintained APIs"},
			},
		},
		"academics": []interface{}{
			map[string]interface{}{
				"qualification":   "BSc",
				"institution":     "MIT",
				"graduation_year": "2017",
			},
		},
		"awards": []interface{}{"Employee of the year"},
	}

	cv := AdaptLegacyPayload(payload)
	assert.Equal(t, "John Roe", cv.ContactInformation.Name)
	assert.Equal(t, "5551234567", cv.ContactInformation.Phone)
	assert.Equal(t, "https://linkedin.com/in/johnroe", cv.ContactInformation.LinkedIn)
	assert.Equal(t, "Backend developer.", cv.ProfessionalSummary)

	// 扁平技能列表进other桶，逗号/分号都是分隔符
	assert.Equal(t, []string{"Python", "Docker", "Kafka"}, cv.Skills.Other)
	assert.Empty(t, cv.Skills.Technical)

	require.Len(t, cv.WorkExperience, 1)
	assert.Equal(t, "Developer", cv.WorkExperience[0].Title)
	assert.Equal(t, "Widgets Ltd", cv.WorkExperience[0].Company)
	assert.Equal(t, []string{"Maintained APIs"}, cv.WorkExperience[0].Points)

	require.Len(t, cv.Education, 1)
	assert.Equal(t, "BSc", cv.Education[0].Degree)
	assert.Equal(t, "MIT", cv.Education[0].School)
	assert.Equal(t, "2017", cv.Education[0].Year)

	assert.Equal(t, []string{"Employee of the year"}, cv.Achievements)
}

func TestAdaptLegacyPayloadNilAndEmpty(t *testing.T) {
	cv := AdaptLegacyPayload(nil)
	require.NotNil(t, cv)
	assert.True(t, cv.IsEmpty(), "空负载应产出空简历")

	cv = AdaptLegacyPayload(map[string]interface{}{})
	require.NotNil(t, cv)
	assert.True(t, cv.IsEmpty())
	assert.NotNil(t, cv.Skills.Other, "切片字段不应为nil")
}
