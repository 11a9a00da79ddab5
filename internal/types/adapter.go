package types

import "strings"

// AdaptLegacyPayload 将历史版本的简历JSON负载映射到规范的StructuredCV。
// 历史数据中同一字段存在多种键名（如 "skills"/"Skills"/"technical_skills"），
// 所有变体键的兼容逻辑集中在这里，业务代码只消费规范结构。
func AdaptLegacyPayload(payload map[string]interface{}) *StructuredCV {
	cv := NewStructuredCV()
	if payload == nil {
		return cv
	}

	if contact, ok := firstMap(payload, "contact_information", "contact_info", "contact", "personal_info"); ok {
		cv.ContactInformation = adaptContact(contact)
	}

	cv.ProfessionalSummary = firstString(payload, "professional_summary", "summary", "profile", "objective", "about")

	if skills, ok := firstMap(payload, "skills"); ok {
		cv.Skills.Technical = toStringList(skills["technical"])
		cv.Skills.Soft = toStringList(skills["soft"])
		cv.Skills.Other = toStringList(skills["other"])
	} else {
		// 扁平的技能列表/字符串统一归入technical之外的other桶，
		// 由重新归一化流程再做分类
		flat := firstValue(payload, "skills", "Skills", "technical_skills", "skill_list")
		cv.Skills.Other = toStringList(flat)
	}

	for _, item := range toMapList(firstValue(payload, "work_experience", "experience", "work_history", "employment")) {
		cv.WorkExperience = append(cv.WorkExperience, ExperienceEntry{
			Title:    firstString(item, "title", "role", "position", "job_title"),
			Company:  firstString(item, "company", "employer", "organization"),
			Dates:    firstString(item, "dates", "duration", "period"),
			Location: firstString(item, "location"),
			Points:   toStringList(firstValue(item, "points", "bullets", "responsibilities", "description")),
		})
	}

	for _, item := range toMapList(firstValue(payload, "education", "education_history", "academics")) {
		cv.Education = append(cv.Education, EducationEntry{
			Degree: firstString(item, "degree", "qualification", "course"),
			School: firstString(item, "school", "institution", "university", "college"),
			Year:   firstString(item, "year", "graduation_year", "dates"),
		})
	}

	for _, item := range toMapList(firstValue(payload, "projects", "personal_projects", "portfolio")) {
		cv.Projects = append(cv.Projects, ProjectEntry{
			Name:         firstString(item, "name", "title", "project_name"),
			Description:  firstString(item, "description", "summary", "details"),
			Technologies: toStringList(firstValue(item, "technologies", "tech_stack", "tools")),
		})
	}

	cv.Certifications = toStringList(firstValue(payload, "certifications", "certificates", "licenses"))
	cv.Achievements = toStringList(firstValue(payload, "achievements", "awards", "honors"))
	cv.Languages = toStringList(firstValue(payload, "languages", "language_skills"))

	for _, item := range toMapList(firstValue(payload, "volunteer_experience", "volunteering", "volunteer")) {
		cv.VolunteerExperience = append(cv.VolunteerExperience, ExperienceEntry{
			Title:    firstString(item, "title", "role"),
			Company:  firstString(item, "company", "organization"),
			Dates:    firstString(item, "dates", "duration"),
			Location: firstString(item, "location"),
			Points:   toStringList(firstValue(item, "points", "bullets", "description")),
		})
	}

	cv.AdditionalInformation = firstString(payload, "additional_information", "additional_info", "other", "misc")

	return cv
}

func firstValue(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	// 有些历史负载的键名是标题大小写
	for _, k := range keys {
		if v, ok := m[strings.Title(k)]; ok && v != nil { //nolint:staticcheck // 历史键名就是Title形式
			return v
		}
	}
	return nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	v := firstValue(m, keys...)
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstMap(m map[string]interface{}, keys ...string) (map[string]interface{}, bool) {
	v := firstValue(m, keys...)
	if sub, ok := v.(map[string]interface{}); ok {
		return sub, true
	}
	return nil, false
}

func adaptContact(m map[string]interface{}) ContactInfo {
	return ContactInfo{
		Name:        firstString(m, "name", "full_name"),
		Email:       firstString(m, "email", "email_address"),
		Phone:       firstString(m, "phone", "phone_number", "mobile", "tel"),
		Location:    firstString(m, "location", "city"),
		Address:     firstString(m, "address"),
		DateOfBirth: firstString(m, "date_of_birth", "dob"),
		LinkedIn:    firstString(m, "linkedin", "linkedin_url"),
		GitHub:      firstString(m, "github", "github_url"),
		Website:     firstString(m, "website", "portfolio", "url"),
	}
}

// toStringList 将string/[]interface{}/[]string的任意历史形态转换为字符串列表
func toStringList(v interface{}) []string {
	out := []string{}
	switch val := v.(type) {
	case nil:
		return out
	case string:
		for _, part := range strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || r == ';' || r == '\n' || r == '|'
		}) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	case []string:
		for _, s := range val {
			if p := strings.TrimSpace(s); p != "" {
				out = append(out, p)
			}
		}
	case []interface{}:
		for _, item := range val {
			if s, ok := item.(string); ok {
				if p := strings.TrimSpace(s); p != "" {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

func toMapList(v interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	items, ok := v.([]interface{})
	if !ok {
		return out
	}
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
