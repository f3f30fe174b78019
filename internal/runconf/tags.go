// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package runconf

import "fmt"

// TestOnlyTag marks runs that evaluate without training.
const TestOnlyTag = "test_only"

// CreateTags derives the experiment-tracker labels of a run: the model name,
// plus [TestOnlyTag] when test is enabled and train is not.
func CreateTags(conf *Mapping) []string {
	tags := make([]string, 0, 2)
	if name, ok := conf.Get("model_name"); ok && name != nil {
		tags = append(tags, fmt.Sprint(name))
	}

	test, _ := conf.GetBool("test")
	train, _ := conf.GetBool("train")
	if test && !train {
		tags = append(tags, TestOnlyTag)
	}
	return tags
}
